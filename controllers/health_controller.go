package controllers

import (
	"net/http"

	"finboard/backend/config"
	"finboard/backend/store"

	"github.com/gin-gonic/gin"
)

// Health pings the store. It is the only unauthenticated route.
func Health(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			respondError(c, err, "Failed to connect to the database")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Database connected"})
	}
}
