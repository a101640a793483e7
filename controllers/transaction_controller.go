package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"finboard/backend/apperrors"
	"finboard/backend/config"
	"finboard/backend/middlewares"
	"finboard/backend/models"
	"finboard/backend/store"

	"github.com/gin-gonic/gin"
)

func invalidField(message, field, detail string) error {
	return &apperrors.ValidationError{
		Message: message,
		Details: []apperrors.FieldError{{Field: field, Message: detail}},
	}
}

func invalidQuery(field, detail string) error {
	return invalidField("Invalid query parameters", field, detail)
}

// transactionFilter reads the listing query. A date-only endDate covers the
// whole day.
func transactionFilter(c *gin.Context) (models.TransactionFilter, error) {
	f := models.TransactionFilter{
		Type:     models.TransactionType(strings.TrimSpace(c.Query("type"))),
		Category: strings.TrimSpace(c.Query("category")),
	}
	if v := c.Query("startDate"); v != "" {
		t, err := models.ParseDate(v)
		if err != nil {
			return f, invalidQuery("startDate", "must be an ISO 8601 date")
		}
		f.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := models.ParseDate(v)
		if err != nil {
			return f, invalidQuery("endDate", "must be an ISO 8601 date")
		}
		if models.IsDateOnly(v) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.EndDate = &t
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, invalidQuery("endDate", "must not be before startDate")
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &f.Limit}, {"offset", &f.Offset}} {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, invalidQuery(p.name, "must be an integer")
		}
		*p.dst = n
	}
	return f, nil
}

func ListTransactions(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := transactionFilter(c)
		if err != nil {
			respondError(c, err, "Failed to fetch transactions")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		txs, err := s.ListTransactions(ctx, middlewares.UserID(c), f)
		if err != nil {
			respondError(c, err, "Failed to fetch transactions")
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": txs})
	}
}

func CreateTransaction(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.TransactionInput
		if err := bindJSON(c, &in, "Invalid transaction data"); err != nil {
			respondError(c, err, "Failed to create transaction")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		t, err := s.CreateTransaction(ctx, middlewares.UserID(c), in)
		if err != nil {
			respondError(c, err, "Failed to create transaction")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Transaction created successfully", "transaction": t})
	}
}

func GetTransaction(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		t, err := s.GetTransaction(ctx, middlewares.UserID(c), c.Param("id"))
		if err != nil {
			respondLookupError(c, err, "Transaction not found", "Failed to fetch transaction")
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": t})
	}
}

func UpdateTransaction(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.TransactionPatch
		if err := bindJSON(c, &p, "Invalid transaction data"); err != nil {
			respondError(c, err, "Failed to update transaction")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		t, err := s.UpdateTransaction(ctx, middlewares.UserID(c), c.Param("id"), p)
		if err != nil {
			respondLookupError(c, err, "Transaction not found", "Failed to update transaction")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transaction updated successfully", "transaction": t})
	}
}

func DeleteTransaction(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		if err := s.DeleteTransaction(ctx, middlewares.UserID(c), c.Param("id")); err != nil {
			respondLookupError(c, err, "Transaction not found", "Failed to delete transaction")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
	}
}

func TransactionCategories(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		typ := models.TransactionType(strings.TrimSpace(c.Query("type")))
		cats, err := s.TransactionCategories(ctx, middlewares.UserID(c), typ)
		if err != nil {
			respondError(c, err, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	}
}
