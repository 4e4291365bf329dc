package casting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned for lookups and mutations against unknown ids.
var ErrNotFound = errors.New("casting: record not found")

// Store persists actors and movies.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// ListActors returns all actors ordered by id.
func (s *Store) ListActors(ctx context.Context) ([]Actor, error) {
	actors := make([]Actor, 0)
	if err := s.db.NewSelect().Model(&actors).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	return actors, nil
}

// GetActor returns one actor by id.
func (s *Store) GetActor(ctx context.Context, id int64) (*Actor, error) {
	actor := new(Actor)
	err := s.db.NewSelect().Model(actor).Where("a.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get actor %d: %w", id, err)
	}
	return actor, nil
}

// CreateActor inserts the actor and fills in its assigned id.
func (s *Store) CreateActor(ctx context.Context, actor *Actor) error {
	if _, err := s.db.NewInsert().Model(actor).Exec(ctx); err != nil {
		return fmt.Errorf("create actor: %w", err)
	}
	return nil
}

// UpdateActor applies a partial update and returns the updated row.
func (s *Store) UpdateActor(ctx context.Context, id int64, patch ActorPatch) (*Actor, error) {
	actor, err := s.GetActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		actor.Name = *patch.Name
	}
	if patch.Age != nil {
		actor.Age = *patch.Age
	}
	if patch.Gender != nil {
		actor.Gender = *patch.Gender
	}
	if _, err := s.db.NewUpdate().Model(actor).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("update actor %d: %w", id, err)
	}
	return actor, nil
}

// DeleteActor removes one actor by id.
func (s *Store) DeleteActor(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*Actor)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete actor %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMovies returns all movies ordered by id.
func (s *Store) ListMovies(ctx context.Context) ([]Movie, error) {
	movies := make([]Movie, 0)
	if err := s.db.NewSelect().Model(&movies).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// GetMovie returns one movie by id.
func (s *Store) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	movie := new(Movie)
	err := s.db.NewSelect().Model(movie).Where("m.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return movie, nil
}

// CreateMovie inserts the movie and fills in its assigned id.
func (s *Store) CreateMovie(ctx context.Context, movie *Movie) error {
	if _, err := s.db.NewInsert().Model(movie).Exec(ctx); err != nil {
		return fmt.Errorf("create movie: %w", err)
	}
	return nil
}

// UpdateMovie applies a partial update and returns the updated row.
func (s *Store) UpdateMovie(ctx context.Context, id int64, patch MoviePatch) (*Movie, error) {
	movie, err := s.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		movie.Title = *patch.Title
	}
	if patch.ReleaseDate != nil {
		movie.ReleaseDate = *patch.ReleaseDate
	}
	if _, err := s.db.NewUpdate().Model(movie).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("update movie %d: %w", id, err)
	}
	return movie, nil
}

// DeleteMovie removes one movie by id.
func (s *Store) DeleteMovie(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*Movie)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete movie %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
