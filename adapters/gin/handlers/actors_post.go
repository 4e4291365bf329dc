package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/ginutil"
	"github.com/shenry/casting-agency/casting"
)

func HandleActorsPOST(store Store, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ginutil.AllowNamed(c, rl, OpActorsCreate) {
			ginutil.TooMany(c)
			return
		}
		var body struct {
			Name   string `json:"name"`
			Age    *int   `json:"age"`
			Gender string `json:"gender"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			ginutil.BadRequest(c, "bad request")
			return
		}
		if body.Name == "" || body.Age == nil || *body.Age <= 0 || body.Gender == "" {
			ginutil.BadRequest(c, "name, age and gender are required")
			return
		}
		actor := &casting.Actor{Name: body.Name, Age: *body.Age, Gender: body.Gender}
		if err := store.CreateActor(c.Request.Context(), actor); err != nil {
			ginutil.Unprocessable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "actor": actor})
	}
}
