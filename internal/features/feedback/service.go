package feedback

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/internal/storage"
)

const maxTextLength = 4000

// Service records and lists course feedback.
type Service struct {
	store   Store
	courses course.Store
	lessons lesson.Store
	gate    *progress.Gate
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a feedback service.
func NewService(store Store, courses course.Store, lessons lesson.Store, gate *progress.Gate, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		courses: courses,
		lessons: lessons,
		gate:    gate,
		logger:  logger,
		now:     time.Now,
	}
}

// Add stores course-level feedback from a learner who completed every lesson.
func (s *Service) Add(ctx context.Context, email, courseID, text string) (Feedback, error) {
	if !s.permitted(ctx, email, courseID) {
		return Feedback{}, progress.ErrNotPermitted
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Feedback{}, ErrTextRequired
	}
	if utf8.RuneCountInString(text) > maxTextLength {
		return Feedback{}, ErrTextTooLong
	}

	completed, err := s.CourseCompleted(ctx, email, courseID)
	if err != nil {
		return Feedback{}, err
	}
	if !completed {
		return Feedback{}, ErrCourseNotCompleted
	}

	entry := Feedback{
		ID:           uuid.New(),
		CourseID:     courseID,
		LessonNumber: CourseLevel,
		Email:        email,
		FeedbackText: text,
		CreatedAt:    s.now(),
	}
	if err := s.store.Add(ctx, entry); err != nil {
		return Feedback{}, storage.Unavailable(err)
	}

	s.logger.InfoContext(ctx, "feedback added", slog.String("email", email), slog.String("course", courseID))
	return entry, nil
}

// CourseCompleted reports whether the learner passed the quiz of every lesson of a
// course that has at least one lesson.
func (s *Service) CourseCompleted(ctx context.Context, email, courseID string) (bool, error) {
	lessons, err := s.lessons.List(ctx, courseID)
	if err != nil {
		return false, storage.Unavailable(err)
	}
	if len(lessons) == 0 {
		return false, nil
	}

	p := s.gate.Progress(ctx, email, courseID)
	for _, l := range lessons {
		if !p.HasCompleted(l.Number) {
			return false, nil
		}
	}
	return true, nil
}

// ListByCourse returns one course's feedback, newest first.
func (s *Service) ListByCourse(ctx context.Context, email, courseID string) ([]Feedback, error) {
	if !s.permitted(ctx, email, courseID) {
		return nil, progress.ErrNotPermitted
	}
	return s.list(ctx, []string{courseID})
}

// ListVisible returns feedback of every course the caller may open, newest first.
func (s *Service) ListVisible(ctx context.Context, email string) ([]Feedback, error) {
	perms := s.gate.Permissions(ctx, email)
	if !perms.IsAdmin() {
		return s.list(ctx, perms.Courses())
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, storage.Unavailable(err)
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return s.list(ctx, ids)
}

func (s *Service) list(ctx context.Context, courseIDs []string) ([]Feedback, error) {
	entries, err := s.store.ListByCourses(ctx, courseIDs)
	if err != nil {
		return nil, storage.Unavailable(err)
	}
	if entries == nil {
		entries = []Feedback{}
	}
	return entries, nil
}

func (s *Service) permitted(ctx context.Context, email, courseID string) bool {
	perms := s.gate.Permissions(ctx, email)
	return perms.IsAdmin() || perms.Has(courseID)
}
