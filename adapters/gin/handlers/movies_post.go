package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/ginutil"
	"github.com/shenry/casting-agency/casting"
)

func HandleMoviesPOST(store Store, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ginutil.AllowNamed(c, rl, OpMoviesCreate) {
			ginutil.TooMany(c)
			return
		}
		var body struct {
			Title       string `json:"title"`
			ReleaseDate string `json:"release_date"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			ginutil.BadRequest(c, "bad request")
			return
		}
		if body.Title == "" || body.ReleaseDate == "" {
			ginutil.BadRequest(c, "title and release_date are required")
			return
		}
		release, err := casting.ParseDate(body.ReleaseDate)
		if err != nil {
			ginutil.BadRequest(c, "release_date must be YYYY-MM-DD")
			return
		}
		movie := &casting.Movie{Title: body.Title, ReleaseDate: release}
		if err := store.CreateMovie(c.Request.Context(), movie); err != nil {
			ginutil.Unprocessable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "movie": movie})
	}
}
