package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/ginutil"
)

func HandleActorsGET(store Store, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ginutil.AllowNamed(c, rl, OpActorsList) {
			ginutil.TooMany(c)
			return
		}
		actors, err := store.ListActors(c.Request.Context())
		if err != nil {
			ginutil.Unprocessable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "actors": actors})
	}
}
