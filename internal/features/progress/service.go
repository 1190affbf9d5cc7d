package progress

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/storage"
)

// Gate decides lesson access and is the only writer of progress rows.
type Gate struct {
	store  Store
	users  user.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewGate constructs a progress gate.
func NewGate(store Store, users user.Store, logger *slog.Logger) *Gate {
	return &Gate{store: store, users: users, logger: logger, now: time.Now}
}

// Permissions returns the user's permission set, or an empty set when it cannot be read.
func (g *Gate) Permissions(ctx context.Context, email string) user.PermissionSet {
	return storage.ReadOr(ctx, g.logger, "progress.permissions", user.PermissionSet{}, func(ctx context.Context) (user.PermissionSet, error) {
		u, err := g.users.Get(ctx, email)
		if errors.Is(err, user.ErrUserNotFound) {
			return user.PermissionSet{}, nil
		}
		if err != nil {
			return nil, err
		}
		return u.PermissionSet(), nil
	})
}

// Progress returns the learner's progress in a course, or the starting position
// when no row exists or it cannot be read.
func (g *Gate) Progress(ctx context.Context, email, courseID string) StudentProgress {
	return storage.ReadOr(ctx, g.logger, "progress.get", Start(email, courseID), func(ctx context.Context) (StudentProgress, error) {
		p, _, err := g.store.Get(ctx, email, courseID)
		return p, err
	})
}

// CheckLessonAccess returns nil when the learner may open the lesson.
// Administrators pass the permission check but are still progress gated.
func (g *Gate) CheckLessonAccess(ctx context.Context, email, courseID string, lesson int) error {
	if lesson < 1 {
		return ErrInvalidLesson
	}

	perms := g.Permissions(ctx, email)
	if !perms.IsAdmin() && !perms.Has(courseID) {
		return ErrNotPermitted
	}

	if !g.Progress(ctx, email, courseID).Accessible(lesson) {
		return ErrLessonLocked
	}
	return nil
}

// CanAccessLesson is the boolean form of CheckLessonAccess.
func (g *Gate) CanAccessLesson(ctx context.Context, email, courseID string, lesson int) bool {
	return g.CheckLessonAccess(ctx, email, courseID, lesson) == nil
}

// RecordQuizPass marks the lesson completed and moves the frontier past it.
func (g *Gate) RecordQuizPass(ctx context.Context, email, courseID string, lesson int) (StudentProgress, error) {
	p, err := g.store.RecordPass(ctx, email, courseID, lesson, g.now())
	if err != nil {
		if errors.Is(err, ErrLessonLocked) || errors.Is(err, ErrInvalidLesson) {
			return StudentProgress{}, err
		}
		return StudentProgress{}, storage.Unavailable(err)
	}

	g.logger.InfoContext(ctx, "quiz pass recorded",
		slog.String("email", email),
		slog.String("course", courseID),
		slog.Int("lesson", lesson),
		slog.Int("current_lesson", p.CurrentLesson),
	)
	return p, nil
}

// CourseProgress summarises one started course.
type CourseProgress struct {
	CourseID         string          `json:"courseId"`
	CourseName       string          `json:"courseName"`
	CurrentLesson    int             `json:"currentLesson"`
	CompletedLessons []int64         `json:"completedLessons"`
	Completed        int             `json:"completed"`
	Total            int             `json:"total"`
	Remaining        int             `json:"remaining"`
	Percent          decimal.Decimal `json:"percent"`
}

// Overview lists the learner's started courses with completion figures.
func (g *Gate) Overview(ctx context.Context, email string) []CourseProgress {
	rows := storage.ReadOr(ctx, g.logger, "progress.overview", []OverviewRow{}, func(ctx context.Context) ([]OverviewRow, error) {
		return g.store.Overview(ctx, email)
	})

	overview := make([]CourseProgress, 0, len(rows))
	for _, row := range rows {
		overview = append(overview, Summarise(row))
	}
	return overview
}

// Summarise computes completion figures for one row. Percent has one decimal place.
func Summarise(row OverviewRow) CourseProgress {
	completed := len(row.CompletedLessons)
	total := int(row.TotalLessons)

	percent := decimal.Zero
	if total > 0 {
		percent = decimal.NewFromInt(int64(completed)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(total))).
			Round(1)
	}

	remaining := total - completed
	if remaining < 0 {
		remaining = 0
	}

	lessons := []int64(row.CompletedLessons)
	if lessons == nil {
		lessons = []int64{}
	}

	return CourseProgress{
		CourseID:         row.CourseID,
		CourseName:       row.CourseName,
		CurrentLesson:    row.CurrentLesson,
		CompletedLessons: lessons,
		Completed:        completed,
		Total:            total,
		Remaining:        remaining,
		Percent:          percent,
	}
}
