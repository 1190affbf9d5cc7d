package like

import (
	"context"
	"log/slog"

	"github.com/mo-amir99/course-server-go/internal/storage"
)

// Service toggles and counts lesson likes.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a like service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Toggle flips the learner's like on a lesson and returns the new counter.
func (s *Service) Toggle(ctx context.Context, courseID string, lesson int, email string) (Summary, error) {
	liked, err := s.store.Toggle(ctx, courseID, lesson, email)
	if err != nil {
		return Summary{}, storage.Unavailable(err)
	}

	summary := s.Summaries(ctx, courseID, email)[lesson]
	summary.Liked = liked
	return summary, nil
}

// Summaries returns like counters per lesson. Counters are empty when the store cannot be read.
func (s *Service) Summaries(ctx context.Context, courseID, email string) map[int]Summary {
	return storage.ReadOr(ctx, s.logger, "like.summaries", map[int]Summary{}, func(ctx context.Context) (map[int]Summary, error) {
		return s.store.Summaries(ctx, courseID, email)
	})
}
