package videoview

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// View is one append-only record of a learner opening a lesson video.
type View struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;index" json:"email"`
	CourseID     string    `gorm:"type:varchar(40);not null;column:course_id;index:idx_video_views_lesson,priority:1" json:"courseId"`
	LessonNumber int       `gorm:"not null;column:lesson_number;index:idx_video_views_lesson,priority:2" json:"lessonNumber"`
	ViewTime     time.Time `gorm:"not null;column:view_time" json:"viewTime"`
}

// TableName overrides the default table name.
func (View) TableName() string { return "video_views" }

// Store is the persistence contract for video views.
type Store interface {
	Append(ctx context.Context, v View) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Append(ctx context.Context, v View) error {
	return s.db.WithContext(ctx).Create(&v).Error
}

// Recorder logs video views. A failed write never blocks the learner.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder constructs a view recorder.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Record appends a view row.
func (r *Recorder) Record(ctx context.Context, email, courseID string, lesson int) {
	err := r.store.Append(ctx, View{
		ID:           uuid.New(),
		Email:        email,
		CourseID:     courseID,
		LessonNumber: lesson,
		ViewTime:     r.now(),
	})
	if err != nil {
		r.logger.WarnContext(ctx, "failed to record video view",
			slog.String("email", email),
			slog.String("course", courseID),
			slog.Int("lesson", lesson),
			slog.String("error", err.Error()),
		)
	}
}
