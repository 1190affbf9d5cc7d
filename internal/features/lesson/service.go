package lesson

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/like"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/internal/features/videoview"
	"github.com/mo-amir99/course-server-go/internal/storage"
)

// Service serves lesson content to learners and lesson authoring to administrators.
type Service struct {
	store   Store
	courses course.Store
	gate    *progress.Gate
	likes   *like.Service
	views   *videoview.Recorder
	logger  *slog.Logger
}

// NewService constructs a lesson service.
func NewService(
	store Store,
	courses course.Store,
	gate *progress.Gate,
	likes *like.Service,
	views *videoview.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:   store,
		courses: courses,
		gate:    gate,
		likes:   likes,
		views:   views,
		logger:  logger,
	}
}

// Listing is one row of a learner's lesson list.
type Listing struct {
	Number        int                   `json:"lessonNumber"`
	Title         string                `json:"title"`
	HasVideo      bool                  `json:"hasVideo"`
	HasDocument   bool                  `json:"hasDocument"`
	QuizQuestions int64                 `json:"quizQuestions"`
	Status        progress.LessonStatus `json:"status"`
	Likes         like.Summary          `json:"likes"`
}

// Content is an opened lesson.
type Content struct {
	Lesson
	EmbedURL string `json:"embedUrl,omitempty"`
}

// ListForLearner returns the course's lessons with the learner's status and like counters.
func (s *Service) ListForLearner(ctx context.Context, email, courseID string) ([]Listing, error) {
	perms := s.gate.Permissions(ctx, email)
	if !perms.IsAdmin() && !perms.Has(courseID) {
		return nil, progress.ErrNotPermitted
	}

	lessons, err := s.List(ctx, courseID)
	if err != nil {
		return nil, err
	}

	p := s.gate.Progress(ctx, email, courseID)
	likes := s.likes.Summaries(ctx, courseID, email)

	listing := make([]Listing, 0, len(lessons))
	for _, l := range lessons {
		listing = append(listing, Listing{
			Number:        l.Number,
			Title:         l.Title,
			HasVideo:      l.VideoURL != "",
			HasDocument:   l.PDFURL != "",
			QuizQuestions: l.QuizQuestions,
			Status:        p.Status(l.Number),
			Likes:         likes[l.Number],
		})
	}
	return listing, nil
}

// Open returns lesson content when the access gate allows it and logs a video view.
func (s *Service) Open(ctx context.Context, email, courseID string, number int) (Content, error) {
	if err := s.gate.CheckLessonAccess(ctx, email, courseID, number); err != nil {
		return Content{}, err
	}

	l, err := s.Get(ctx, courseID, number)
	if err != nil {
		return Content{}, err
	}

	content := Content{Lesson: l}
	if l.VideoURL != "" {
		content.EmbedURL, _ = EmbedURL(l.VideoURL)
		s.views.Record(ctx, email, courseID, number)
	}
	return content, nil
}

// ToggleLike flips the learner's like on an accessible lesson.
func (s *Service) ToggleLike(ctx context.Context, email, courseID string, number int) (like.Summary, error) {
	if err := s.gate.CheckLessonAccess(ctx, email, courseID, number); err != nil {
		return like.Summary{}, err
	}
	if _, err := s.Get(ctx, courseID, number); err != nil {
		return like.Summary{}, err
	}
	return s.likes.Toggle(ctx, courseID, number, email)
}

// List returns the course's lessons ordered by number.
func (s *Service) List(ctx context.Context, courseID string) ([]Summary, error) {
	lessons, err := s.store.List(ctx, courseID)
	if err != nil {
		return nil, storage.Unavailable(err)
	}
	if lessons == nil {
		lessons = []Summary{}
	}
	return lessons, nil
}

// Get returns one lesson.
func (s *Service) Get(ctx context.Context, courseID string, number int) (Lesson, error) {
	l, err := s.store.Get(ctx, courseID, number)
	if err != nil {
		if errors.Is(err, ErrLessonNotFound) {
			return Lesson{}, err
		}
		return Lesson{}, storage.Unavailable(err)
	}
	return l, nil
}

// Upsert creates or replaces a lesson of an existing course.
func (s *Service) Upsert(ctx context.Context, input UpsertInput) (Lesson, bool, error) {
	if input.Number < 1 {
		return Lesson{}, false, ErrInvalidNumber
	}

	videoURL := strings.TrimSpace(input.VideoURL)
	pdfURL := strings.TrimSpace(input.PDFURL)
	if videoURL == "" && pdfURL == "" {
		return Lesson{}, false, ErrContentRequired
	}
	for _, ref := range []string{videoURL, pdfURL} {
		if ref != "" && !isHTTPURL(ref) {
			return Lesson{}, false, ErrInvalidContentURL
		}
	}

	if _, err := s.courses.Get(ctx, input.CourseID); err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			return Lesson{}, false, err
		}
		return Lesson{}, false, storage.Unavailable(err)
	}

	stored, created, err := s.store.Upsert(ctx, Lesson{
		CourseID: input.CourseID,
		Number:   input.Number,
		Title:    strings.TrimSpace(input.Title),
		VideoURL: videoURL,
		PDFURL:   pdfURL,
	})
	if err != nil {
		return Lesson{}, false, storage.Unavailable(err)
	}

	s.logger.InfoContext(ctx, "lesson saved",
		slog.String("course", input.CourseID),
		slog.Int("lesson", input.Number),
		slog.Bool("created", created),
	)
	return stored, created, nil
}

// Delete removes a lesson together with its quiz and likes.
func (s *Service) Delete(ctx context.Context, courseID string, number int) error {
	if err := s.store.Delete(ctx, courseID, number); err != nil {
		if errors.Is(err, ErrLessonNotFound) {
			return err
		}
		return storage.Unavailable(err)
	}

	s.logger.InfoContext(ctx, "lesson deleted", slog.String("course", courseID), slog.Int("lesson", number))
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
