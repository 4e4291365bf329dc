// Package ginutil holds shared gin helpers: response envelopes, request ids,
// and rate limiting.
package ginutil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error writes the service's JSON error envelope and aborts the request.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   status,
		"message": message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "resource not found")
}

func Unprocessable(c *gin.Context) {
	Error(c, http.StatusUnprocessableEntity, "unprocessable")
}

func ServerErr(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}

func TooMany(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "too many requests")
}

// Recovery converts a handler panic into the 500 error envelope instead of
// gin's bare status response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, _ any) {
		ServerErr(c)
	})
}
