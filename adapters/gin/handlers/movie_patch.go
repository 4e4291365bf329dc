package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/ginutil"
	"github.com/shenry/casting-agency/casting"
)

func HandleMoviePATCH(store Store, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			ginutil.NotFound(c)
			return
		}
		if !ginutil.AllowNamed(c, rl, OpMoviesUpdate) {
			ginutil.TooMany(c)
			return
		}
		var body struct {
			Title       *string `json:"title"`
			ReleaseDate *string `json:"release_date"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			ginutil.BadRequest(c, "bad request")
			return
		}
		if body.Title == nil && body.ReleaseDate == nil {
			ginutil.BadRequest(c, "nothing to update")
			return
		}
		patch := casting.MoviePatch{Title: body.Title}
		if body.ReleaseDate != nil {
			release, err := casting.ParseDate(*body.ReleaseDate)
			if err != nil {
				ginutil.BadRequest(c, "release_date must be YYYY-MM-DD")
				return
			}
			patch.ReleaseDate = &release
		}
		movie, err := store.UpdateMovie(c.Request.Context(), id, patch)
		if errors.Is(err, casting.ErrNotFound) {
			ginutil.NotFound(c)
			return
		}
		if err != nil {
			ginutil.Unprocessable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "movie": movie})
	}
}
