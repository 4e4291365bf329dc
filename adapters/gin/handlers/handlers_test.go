package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenry/casting-agency/adapters/gin/handlers"
	"github.com/shenry/casting-agency/casting"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore is an in-memory handlers.Store.
type fakeStore struct {
	actors map[int64]*casting.Actor
	movies map[int64]*casting.Movie
	nextID int64
	fail   bool
}

var errStore = errors.New("store failure")

func newFakeStore() *fakeStore {
	return &fakeStore{
		actors: make(map[int64]*casting.Actor),
		movies: make(map[int64]*casting.Movie),
		nextID: 1,
	}
}

func (f *fakeStore) ListActors(context.Context) ([]casting.Actor, error) {
	if f.fail {
		return nil, errStore
	}
	out := make([]casting.Actor, 0, len(f.actors))
	for id := int64(1); id < f.nextID; id++ {
		if a, ok := f.actors[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateActor(_ context.Context, a *casting.Actor) error {
	if f.fail {
		return errStore
	}
	a.ID = f.nextID
	f.nextID++
	f.actors[a.ID] = a
	return nil
}

func (f *fakeStore) UpdateActor(_ context.Context, id int64, p casting.ActorPatch) (*casting.Actor, error) {
	a, ok := f.actors[id]
	if !ok {
		return nil, casting.ErrNotFound
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	if p.Gender != nil {
		a.Gender = *p.Gender
	}
	return a, nil
}

func (f *fakeStore) DeleteActor(_ context.Context, id int64) error {
	if _, ok := f.actors[id]; !ok {
		return casting.ErrNotFound
	}
	delete(f.actors, id)
	return nil
}

func (f *fakeStore) ListMovies(context.Context) ([]casting.Movie, error) {
	if f.fail {
		return nil, errStore
	}
	out := make([]casting.Movie, 0, len(f.movies))
	for id := int64(1); id < f.nextID; id++ {
		if m, ok := f.movies[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateMovie(_ context.Context, m *casting.Movie) error {
	if f.fail {
		return errStore
	}
	m.ID = f.nextID
	f.nextID++
	f.movies[m.ID] = m
	return nil
}

func (f *fakeStore) UpdateMovie(_ context.Context, id int64, p casting.MoviePatch) (*casting.Movie, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, casting.ErrNotFound
	}
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.ReleaseDate != nil {
		m.ReleaseDate = *p.ReleaseDate
	}
	return m, nil
}

func (f *fakeStore) DeleteMovie(_ context.Context, id int64) error {
	if _, ok := f.movies[id]; !ok {
		return casting.ErrNotFound
	}
	delete(f.movies, id)
	return nil
}

// denyAll is a RateLimiter that rejects everything.
type denyAll struct{}

func (denyAll) AllowNamed(string, string) (bool, error) { return false, nil }

func newRouter(store handlers.Store) *gin.Engine {
	r := gin.New()
	r.GET("/actors", handlers.HandleActorsGET(store, nil))
	r.POST("/actors", handlers.HandleActorsPOST(store, nil))
	r.PATCH("/actors/:id", handlers.HandleActorPATCH(store, nil))
	r.DELETE("/actors/:id", handlers.HandleActorDELETE(store, nil))
	r.GET("/movies", handlers.HandleMoviesGET(store, nil))
	r.POST("/movies", handlers.HandleMoviesPOST(store, nil))
	r.PATCH("/movies/:id", handlers.HandleMoviePATCH(store, nil))
	r.DELETE("/movies/:id", handlers.HandleMovieDELETE(store, nil))
	r.GET("/", handlers.HandleHealthGET())
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newRouter(newFakeStore()), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Casting Agency API is running!"}`, w.Body.String())
}

func TestActorsCRUD(t *testing.T) {
	store := newFakeStore()
	r := newRouter(store)

	// Empty list.
	w := do(r, http.MethodGet, "/actors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"actors":[]}`, w.Body.String())

	// Create.
	w = do(r, http.MethodPost, "/actors", gin.H{"name": "Meryl", "age": 76, "gender": "female"})
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		Success bool          `json:"success"`
		Actor   casting.Actor `json:"actor"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, int64(1), created.Actor.ID)

	// Patch one field; others untouched.
	w = do(r, http.MethodPatch, "/actors/1", gin.H{"age": 77})
	require.Equal(t, http.StatusOK, w.Code)
	var patched struct {
		Actor casting.Actor `json:"actor"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, 77, patched.Actor.Age)
	assert.Equal(t, "Meryl", patched.Actor.Name)

	// Delete echoes the id.
	w = do(r, http.MethodDelete, "/actors/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"delete":1}`, w.Body.String())

	// Gone now.
	w = do(r, http.MethodDelete, "/actors/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActorsPOSTValidation(t *testing.T) {
	r := newRouter(newFakeStore())

	cases := []struct {
		name string
		body gin.H
	}{
		{"empty body", gin.H{}},
		{"missing name", gin.H{"age": 30, "gender": "male"}},
		{"missing age", gin.H{"name": "Tom", "gender": "male"}},
		{"missing gender", gin.H{"name": "Tom", "age": 30}},
		{"non-positive age", gin.H{"name": "Tom", "age": 0, "gender": "male"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/actors", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestActorsStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	r := newRouter(store)

	w := do(r, http.MethodGet, "/actors", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPost, "/actors", gin.H{"name": "Tom", "age": 30, "gender": "male"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMoviesCRUD(t *testing.T) {
	store := newFakeStore()
	r := newRouter(store)

	w := do(r, http.MethodPost, "/movies", gin.H{"title": "Heat 2", "release_date": "2026-06-01"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"release_date":"2026-06-01"`)

	w = do(r, http.MethodGet, "/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Heat 2"`)

	w = do(r, http.MethodPatch, "/movies/1", gin.H{"release_date": "2027-01-15"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"release_date":"2027-01-15"`)

	w = do(r, http.MethodDelete, "/movies/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"delete":1}`, w.Body.String())
}

func TestMoviesPOSTValidation(t *testing.T) {
	r := newRouter(newFakeStore())

	w := do(r, http.MethodPost, "/movies", gin.H{"title": "No Date"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/movies", gin.H{"title": "Bad Date", "release_date": "06/01/2026"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchUnknownAndInvalidIDs(t *testing.T) {
	r := newRouter(newFakeStore())

	w := do(r, http.MethodPatch, "/movies/99", gin.H{"title": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPatch, "/movies/abc", gin.H{"title": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPatch, "/movies/1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty patch is a bad request")
}

func TestRateLimitedRoute(t *testing.T) {
	r := gin.New()
	r.GET("/actors", handlers.HandleActorsGET(newFakeStore(), denyAll{}))

	w := do(r, http.MethodGet, "/actors", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
