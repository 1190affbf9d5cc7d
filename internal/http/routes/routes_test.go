package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-server-go/internal/bootstrap"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/http/routes"
	"github.com/mo-amir99/course-server-go/internal/storage/memstore"
	"github.com/mo-amir99/course-server-go/pkg/cache"
	"github.com/mo-amir99/course-server-go/pkg/config"
	"github.com/mo-amir99/course-server-go/pkg/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	return c.doWith(method, path, token, body, nil)
}

func (c client) doWith(method, path, token string, body any, headers map[string]string) (int, envelope) {
	c.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (c client) login(email, password string) string {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, code, env.Message)

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(c.t, data.AccessToken)
	return data.AccessToken
}

func newClient(t *testing.T) client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	stores := bootstrap.MemoryStores(memstore.New())

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		CatalogCacheTTL: time.Minute,
		Admin:           config.AdminConfig{Email: "admin@example.com", Password: "admin-password", FullName: "Admin"},
	}
	require.NoError(t, bootstrap.EnsureDefaultAdmin(context.Background(), user.NewService(stores.Users, log), cfg.Admin, log))

	router := routes.NewRouter(routes.Dependencies{
		Config: cfg,
		Stores: stores,
		Cache:  cache.NewMemoryCache(),
		Logger: log,
	})
	return client{t: t, router: router}
}

func TestLearnerJourney(t *testing.T) {
	c := newClient(t)
	admin := c.login("admin@example.com", "admin-password")

	code, _ := c.do(http.MethodPost, "/api/admin/courses", admin, map[string]string{"id": "go101", "name": "Go 101"})
	require.Equal(t, http.StatusCreated, code)

	for _, n := range []string{"1", "2"} {
		code, env := c.do(http.MethodPut, "/api/admin/courses/go101/lessons/"+n, admin, map[string]string{
			"title":    "Lesson " + n,
			"videoUrl": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		})
		require.Equal(t, http.StatusCreated, code, env.Message)
	}

	questions := make([]map[string]string, 0, 5)
	answers := make([]string, 0, 5)
	for _, a := range []string{"go", "nil", "defer", "chan", "map"} {
		questions = append(questions, map[string]string{"question": "Which keyword?", "answer": a})
		answers = append(answers, a)
	}
	code, env := c.do(http.MethodPut, "/api/admin/courses/go101/lessons/1/quiz", admin, map[string]any{"questions": questions[:4]})
	require.Equal(t, http.StatusBadRequest, code, env.Message)
	code, env = c.do(http.MethodPut, "/api/admin/courses/go101/lessons/1/quiz", admin, map[string]any{"questions": questions})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = c.do(http.MethodPost, "/api/admin/users", admin, map[string]any{
		"email":       "learner@example.com",
		"password":    "learner-password",
		"fullName":    "Learner",
		"permissions": []string{"go101"},
	})
	require.Equal(t, http.StatusCreated, code)

	learner := c.login("learner@example.com", "learner-password")

	code, env = c.do(http.MethodGet, "/api/courses", learner, nil)
	require.Equal(t, http.StatusOK, code)
	var courses []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "go101", courses[0]["id"])

	code, _ = c.do(http.MethodGet, "/api/courses/go101/lessons/2", learner, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = c.do(http.MethodGet, "/api/courses/go101/lessons/1/quiz", learner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "defer")

	code, env = c.do(http.MethodPost, "/api/courses/go101/lessons/1/quiz", learner, map[string]any{"answers": answers})
	require.Equal(t, http.StatusOK, code, env.Message)
	var result struct {
		Passed bool `json:"passed"`
		Score  int  `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Passed)
	assert.Equal(t, 5, result.Score)

	code, env = c.do(http.MethodGet, "/api/courses/go101/lessons/2", learner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "https://www.youtube.com/embed/dQw4w9WgXcQ")

	code, env = c.do(http.MethodGet, "/api/progress", learner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"completed":1`)

	code, _ = c.do(http.MethodPost, "/api/courses/go101/feedback", learner, map[string]string{"text": "nice"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAccessControl(t *testing.T) {
	c := newClient(t)
	admin := c.login("admin@example.com", "admin-password")

	code, _ := c.do(http.MethodPost, "/api/admin/users", admin, map[string]any{
		"email": "learner@example.com", "password": "learner-password", "fullName": "Learner",
	})
	require.Equal(t, http.StatusCreated, code)
	learner := c.login("learner@example.com", "learner-password")

	code, _ = c.do(http.MethodGet, "/api/courses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodGet, "/api/courses", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodGet, "/api/admin/users", learner, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Logout retires the session behind the token.
	code, _ = c.do(http.MethodPost, "/api/auth/logout", learner, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/auth/me", learner, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "learner@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLoginThrottleIgnoresForwardedFor(t *testing.T) {
	c := newClient(t)

	// Every attempt comes from the same peer, each claiming a different forwarded address.
	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		code, _ := c.doWith(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    fmt.Sprintf("guess%d@example.com", i),
			"password": "nope",
		}, map[string]string{"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i)})
		codes = append(codes, code)
	}

	assert.Equal(t, []int{401, 401, 401, 401, 401, 429}, codes)
}
