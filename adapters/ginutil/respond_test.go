package ginutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/shenry/casting-agency/adapters/ginutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorEnvelope(t *testing.T) {
	r := gin.New()
	r.GET("/teapot", func(c *gin.Context) {
		ginutil.Error(c, http.StatusTeapot, "short and stout")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"success":false,"error":418,"message":"short and stout"}`, w.Body.String())
}

func TestRecoveryEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(ginutil.Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":500,"message":"internal server error"}`, w.Body.String())
}
