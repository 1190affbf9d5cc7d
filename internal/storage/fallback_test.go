package storage

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/logger"
	"github.com/mo-amir99/course-server-go/pkg/metrics"
)

func TestReadOrReturnsValue(t *testing.T) {
	got := ReadOr(context.Background(), logger.Discard(), "test.ok", int64(0), func(context.Context) (int64, error) {
		return 4, nil
	})
	assert.Equal(t, int64(4), got)
}

func TestReadOrFallsBackAndCounts(t *testing.T) {
	before := testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("test.down"))

	got := ReadOr(context.Background(), logger.Discard(), "test.down", []string{}, func(context.Context) ([]string, error) {
		return []string{"c1"}, errors.New("connection refused")
	})

	assert.Empty(t, got)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("test.down")))
}

func TestUnavailable(t *testing.T) {
	assert.NoError(t, Unavailable(nil))

	err := Unavailable(errors.New("connection reset"))
	assert.True(t, IsUnavailable(err))
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.Status(err, 0))

	again := Unavailable(err)
	assert.Same(t, err, again)
}
