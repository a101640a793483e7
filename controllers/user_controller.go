package controllers

import (
	"net/http"

	"finboard/backend/config"
	"finboard/backend/middlewares"
	"finboard/backend/models"
	"finboard/backend/store"

	"github.com/gin-gonic/gin"
)

// SyncUser copies the identity provider's profile (from the session token
// claims) into the user record, creating it on first call.
func SyncUser(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CurrentClaims(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		u, err := s.SyncUser(ctx, models.Profile{
			ClerkID:     claims.Subject,
			Email:       claims.Email,
			FirstName:   claims.FirstName,
			LastName:    claims.LastName,
			DisplayName: claims.Name,
			ImageURL:    claims.ImageURL,
		})
		if err != nil {
			respondError(c, err, "Failed to sync user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User synced successfully", "user": u})
	}
}

func Me(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		u, err := s.GetUser(ctx, middlewares.UserID(c))
		if err != nil {
			respondLookupError(c, err, "User not found in database", "Failed to fetch user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}

func CompleteOnboarding(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.OnboardingInput
		if err := bindJSON(c, &in, "Missing or invalid onboarding data"); err != nil {
			respondError(c, err, "Failed to save onboarding data")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		u, err := s.CompleteOnboarding(ctx, middlewares.UserID(c), in)
		if err != nil {
			respondLookupError(c, err, "User not found. Please sync user first.", "Failed to save onboarding data")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Onboarding completed successfully", "user": u})
	}
}
