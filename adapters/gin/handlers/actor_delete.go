package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/ginutil"
	"github.com/shenry/casting-agency/casting"
)

func HandleActorDELETE(store Store, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			ginutil.NotFound(c)
			return
		}
		if !ginutil.AllowNamed(c, rl, OpActorsDelete) {
			ginutil.TooMany(c)
			return
		}
		err := store.DeleteActor(c.Request.Context(), id)
		if errors.Is(err, casting.ErrNotFound) {
			ginutil.NotFound(c)
			return
		}
		if err != nil {
			ginutil.Unprocessable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "delete": id})
	}
}
