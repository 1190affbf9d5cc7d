package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	write(c)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestErrorHidesServerDetail(t *testing.T) {
	_, env := render(t, func(c *gin.Context) {
		Error(c, http.StatusBadRequest, "Invalid request", errors.New("name is required"))
	})
	assert.False(t, env.Success)
	assert.Equal(t, "name is required", env.Error)

	_, env = render(t, func(c *gin.Context) {
		Error(c, http.StatusServiceUnavailable, "Store unavailable", errors.New("dial tcp: refused"))
	})
	assert.Empty(t, env.Error)
	assert.Equal(t, "Store unavailable", env.Message)
}

func TestSuccessNoCache(t *testing.T) {
	rec, env := render(t, func(c *gin.Context) {
		SuccessNoCache(c, http.StatusOK, map[string]int{"n": 1}, "")
	})
	assert.True(t, env.Success)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
}
