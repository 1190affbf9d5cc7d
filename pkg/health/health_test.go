package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-server-go/pkg/logger"
)

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	healthy := PingFunc(func(context.Context) error { return nil })
	broken := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		checks map[string]Pinger
		code   int
		status string
	}{
		{"all healthy", map[string]Pinger{"database": healthy, "cache": healthy}, http.StatusOK, "ready"},
		{"one failing", map[string]Pinger{"database": broken, "cache": healthy}, http.StatusServiceUnavailable, "not_ready"},
		{"no checks", nil, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.checks, logger.Discard())
			router := gin.New()
			router.GET("/ready", h.Ready)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			require.Equal(t, tt.code, rec.Code)

			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			for name := range tt.checks {
				assert.Contains(t, body.Checks, name)
			}
		})
	}
}
