package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1},
		},
		[]string{"operation", "table"},
	)

	LoginOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_outcomes_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	QuizSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Graded quiz submissions by outcome",
		},
		[]string{"outcome"},
	)

	StoreFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_read_fallbacks_total",
			Help: "Store reads that failed and were answered with a fallback value",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDuration,
		DBQueryDuration,
		LoginOutcomes,
		QuizSubmissions,
		StoreFallbacks,
	)
}

// Middleware records request counts and latencies keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordDBQuery observes a finished database query.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// RecordLogin counts a login outcome such as "success" or "rate_limited".
func RecordLogin(outcome string) {
	LoginOutcomes.WithLabelValues(outcome).Inc()
}

// RecordQuizSubmission counts a graded quiz as "passed" or "failed".
func RecordQuizSubmission(passed bool) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	QuizSubmissions.WithLabelValues(outcome).Inc()
}

// RecordStoreFallback counts a read that was answered with its fallback value.
func RecordStoreFallback(operation string) {
	StoreFallbacks.WithLabelValues(operation).Inc()
}
