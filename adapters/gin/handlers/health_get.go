package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealthGET answers the unauthenticated health check.
func HandleHealthGET() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Casting Agency API is running!",
		})
	}
}
