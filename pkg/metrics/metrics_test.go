package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/courses/:courseId", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/courses/:courseId", "204"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/courses/c1", nil))

	after := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/courses/:courseId", "204"))
	assert.Equal(t, before+1, after)
}

func TestRecordQuizSubmission(t *testing.T) {
	before := testutil.ToFloat64(QuizSubmissions.WithLabelValues("passed"))
	RecordQuizSubmission(true)
	assert.Equal(t, before+1, testutil.ToFloat64(QuizSubmissions.WithLabelValues("passed")))
}
