package authgin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authgin "github.com/shenry/casting-agency/adapters/gin"
	"github.com/shenry/casting-agency/auth"
	"github.com/shenry/casting-agency/casting"
	issuertest "github.com/shenry/casting-agency/testing"
)

// stubStore serves a fixed actor roster for the end-to-end test.
type stubStore struct{}

func (stubStore) ListActors(context.Context) ([]casting.Actor, error) {
	return []casting.Actor{{ID: 1, Name: "Meryl", Age: 76, Gender: "female"}}, nil
}
func (stubStore) CreateActor(_ context.Context, a *casting.Actor) error {
	a.ID = 2
	return nil
}
func (stubStore) UpdateActor(context.Context, int64, casting.ActorPatch) (*casting.Actor, error) {
	return nil, casting.ErrNotFound
}
func (stubStore) DeleteActor(context.Context, int64) error { return casting.ErrNotFound }
func (stubStore) ListMovies(context.Context) ([]casting.Movie, error) {
	return []casting.Movie{}, nil
}
func (stubStore) CreateMovie(context.Context, *casting.Movie) error { return nil }
func (stubStore) UpdateMovie(context.Context, int64, casting.MoviePatch) (*casting.Movie, error) {
	return nil, casting.ErrNotFound
}
func (stubStore) DeleteMovie(context.Context, int64) error { return casting.ErrNotFound }

// TestRegisterEndToEnd runs real tokens from the test issuer through the
// full stack: JWKS provider, verifier, permission guard, handler.
func TestRegisterEndToEnd(t *testing.T) {
	iss := issuertest.NewIssuer()
	defer iss.Close()

	provider, err := auth.NewJWKSProvider(auth.JWKSProviderConfig{URL: iss.JWKSURL()})
	require.NoError(t, err)
	verifier := auth.NewVerifier(iss.Issuer, iss.Audience, provider)

	r := gin.New()
	authgin.Register(r, verifier, stubStore{}, nil)

	assistant := iss.Token("assistant", []string{"get:actors", "get:movies"})
	director := iss.Token("director", []string{
		"get:actors", "post:actors", "patch:actors", "delete:actors",
		"get:movies", "patch:movies",
	})

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health needs no token", http.MethodGet, "/", "", http.StatusOK},
		{"no token", http.MethodGet, "/actors", "", http.StatusUnauthorized},
		{"assistant reads actors", http.MethodGet, "/actors", assistant, http.StatusOK},
		{"assistant reads movies", http.MethodGet, "/movies", assistant, http.StatusOK},
		{"assistant cannot create", http.MethodPost, "/actors", assistant, http.StatusForbidden},
		{"assistant cannot delete", http.MethodDelete, "/actors/1", assistant, http.StatusForbidden},
		{"director creates actors", http.MethodPost, "/actors", director, http.StatusOK},
		{"director cannot create movies", http.MethodPost, "/movies", director, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body *strings.Reader
			if tc.method == http.MethodPost {
				body = strings.NewReader(`{"name":"Tom","age":60,"gender":"male","title":"Heat 2","release_date":"2026-06-01"}`)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			req.Header.Set("Content-Type", "application/json")
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}

	t.Run("payload visible to allowed caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/actors", nil)
		req.Header.Set("Authorization", "Bearer "+assistant)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"actors":[{"id":1,"name":"Meryl","age":76,"gender":"female"}]}`, w.Body.String())
	})
}
