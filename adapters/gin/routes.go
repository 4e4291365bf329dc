package authgin

import (
	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/gin/handlers"
	"github.com/shenry/casting-agency/adapters/ginutil"
)

// requiredPermission is the capability table: each protected operation maps
// to the permission its caller must hold. Handlers never name permissions;
// route registration consults this table before invoking the core.
var requiredPermission = map[string]string{
	handlers.OpActorsList:   "get:actors",
	handlers.OpActorsCreate: "post:actors",
	handlers.OpActorsUpdate: "patch:actors",
	handlers.OpActorsDelete: "delete:actors",
	handlers.OpMoviesList:   "get:movies",
	handlers.OpMoviesCreate: "post:movies",
	handlers.OpMoviesUpdate: "patch:movies",
	handlers.OpMoviesDelete: "delete:movies",
}

// RequiredPermission returns the permission the operation demands.
func RequiredPermission(op string) string {
	return requiredPermission[op]
}

// Register wires all routes onto the router. rl may be nil to disable rate
// limiting.
func Register(r gin.IRouter, az Authorizer, store handlers.Store, rl ginutil.RateLimiter) {
	guard := func(op string) gin.HandlerFunc {
		return RequirePermission(az, requiredPermission[op])
	}

	r.GET("/", handlers.HandleHealthGET())

	r.GET("/actors", guard(handlers.OpActorsList), handlers.HandleActorsGET(store, rl))
	r.POST("/actors", guard(handlers.OpActorsCreate), handlers.HandleActorsPOST(store, rl))
	r.PATCH("/actors/:id", guard(handlers.OpActorsUpdate), handlers.HandleActorPATCH(store, rl))
	r.DELETE("/actors/:id", guard(handlers.OpActorsDelete), handlers.HandleActorDELETE(store, rl))

	r.GET("/movies", guard(handlers.OpMoviesList), handlers.HandleMoviesGET(store, rl))
	r.POST("/movies", guard(handlers.OpMoviesCreate), handlers.HandleMoviesPOST(store, rl))
	r.PATCH("/movies/:id", guard(handlers.OpMoviesUpdate), handlers.HandleMoviePATCH(store, rl))
	r.DELETE("/movies/:id", guard(handlers.OpMoviesDelete), handlers.HandleMovieDELETE(store, rl))
}
