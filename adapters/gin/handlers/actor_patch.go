package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/ginutil"
	"github.com/shenry/casting-agency/casting"
)

// recordID parses the :id route parameter. A non-numeric id is treated the
// same as an unknown record.
func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func HandleActorPATCH(store Store, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			ginutil.NotFound(c)
			return
		}
		if !ginutil.AllowNamed(c, rl, OpActorsUpdate) {
			ginutil.TooMany(c)
			return
		}
		var body struct {
			Name   *string `json:"name"`
			Age    *int    `json:"age"`
			Gender *string `json:"gender"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			ginutil.BadRequest(c, "bad request")
			return
		}
		if body.Name == nil && body.Age == nil && body.Gender == nil {
			ginutil.BadRequest(c, "nothing to update")
			return
		}
		patch := casting.ActorPatch{Name: body.Name, Age: body.Age, Gender: body.Gender}
		actor, err := store.UpdateActor(c.Request.Context(), id, patch)
		if errors.Is(err, casting.ErrNotFound) {
			ginutil.NotFound(c)
			return
		}
		if err != nil {
			ginutil.Unprocessable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "actor": actor})
	}
}
