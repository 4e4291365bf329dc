// Package handlers implements the HTTP handlers for the agency's records.
package handlers

import (
	"context"

	"github.com/shenry/casting-agency/casting"
)

// Store is the record persistence contract, implemented by casting.Store.
// It names only the operations the handlers perform; single-record reads go
// through the update path.
type Store interface {
	ListActors(ctx context.Context) ([]casting.Actor, error)
	CreateActor(ctx context.Context, actor *casting.Actor) error
	UpdateActor(ctx context.Context, id int64, patch casting.ActorPatch) (*casting.Actor, error)
	DeleteActor(ctx context.Context, id int64) error

	ListMovies(ctx context.Context) ([]casting.Movie, error)
	CreateMovie(ctx context.Context, movie *casting.Movie) error
	UpdateMovie(ctx context.Context, id int64, patch casting.MoviePatch) (*casting.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
}

// Operation names, used as capability-table keys and rate-limit buckets.
const (
	OpActorsList   = "actors.list"
	OpActorsCreate = "actors.create"
	OpActorsUpdate = "actors.update"
	OpActorsDelete = "actors.delete"
	OpMoviesList   = "movies.list"
	OpMoviesCreate = "movies.create"
	OpMoviesUpdate = "movies.update"
	OpMoviesDelete = "movies.delete"
)
