// Package storage holds the read/write failure policy shared by every store consumer.
//
// Reads that fail are answered with a documented fallback value so that a store
// outage degrades access (zero failed attempts, zero sessions, no progress, no
// permissions) instead of locking every learner out. This weakens rate limiting
// and the session cap while the store is down. Writes that fail surface as
// StoreUnavailable and are never retried.
package storage

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/metrics"
)

// ReadOr runs a store read and returns fallback when it fails.
func ReadOr[T any](ctx context.Context, logger *slog.Logger, op string, fallback T, read func(context.Context) (T, error)) T {
	value, err := read(ctx)
	if err == nil {
		return value
	}

	metrics.RecordStoreFallback(op)
	if logger != nil {
		logger.WarnContext(ctx, "store read failed, using fallback",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
	}
	return fallback
}

// Unavailable wraps a failed store write.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.Is(err, apperrors.ErrUnavailable) {
		return err
	}
	return apperrors.New("store unavailable", http.StatusServiceUnavailable, apperrors.ErrUnavailable, err)
}

// IsUnavailable reports whether err came from Unavailable.
func IsUnavailable(err error) bool {
	return apperrors.Is(err, apperrors.ErrUnavailable)
}
