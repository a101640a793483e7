package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"finboard/backend/apperrors"
	"finboard/backend/config"
	"finboard/backend/logger"
	"finboard/backend/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// respondError renders err through the shared taxonomy. Internal causes are
// logged and replaced by publicMessage.
func respondError(c *gin.Context, err error, publicMessage string) {
	status := apperrors.HTTPStatus(err)
	switch status {
	case http.StatusUnauthorized:
		c.JSON(status, gin.H{"error": "Unauthorized"})
	case http.StatusNotFound:
		c.JSON(status, gin.H{"error": "Not found"})
	case http.StatusBadRequest:
		msg := publicMessage
		var ve *apperrors.ValidationError
		if errors.As(err, &ve) && ve.Message != "" {
			msg = ve.Message
		}
		c.JSON(status, gin.H{"error": msg, "details": apperrors.Details(err)})
	default:
		logger.Get().Error(publicMessage,
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("user", middlewares.UserID(c)),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": publicMessage})
	}
}

// respondLookupError is respondError for routes addressing one record.
func respondLookupError(c *gin.Context, err error, notFound, publicMessage string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	respondError(c, err, publicMessage)
}

// requestContext bounds store calls by the configured request timeout.
func requestContext(c *gin.Context, cfg config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
}

// bindJSON decodes the body and converts binding failures into a
// ValidationError carrying message.
func bindJSON(c *gin.Context, v any, message string) error {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		details := make([]apperrors.FieldError, 0, len(ves))
		for _, fe := range ves {
			details = append(details, apperrors.FieldError{
				Field:   lowerFirst(fe.Field()),
				Message: "failed on " + fe.Tag(),
			})
		}
		return &apperrors.ValidationError{Message: message, Details: details}
	}
	return &apperrors.ValidationError{
		Message: message,
		Details: []apperrors.FieldError{{Field: "body", Message: strings.TrimPrefix(err.Error(), "json: ")}},
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
