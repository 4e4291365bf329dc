package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/ginutil"
)

func HandleMoviesGET(store Store, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ginutil.AllowNamed(c, rl, OpMoviesList) {
			ginutil.TooMany(c)
			return
		}
		movies, err := store.ListMovies(c.Request.Context())
		if err != nil {
			ginutil.Unprocessable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "movies": movies})
	}
}
