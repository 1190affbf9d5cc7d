package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseLevel is the lesson number stored for feedback about a whole course.
const CourseLevel = 0

// Feedback is one free-text entry left by a learner.
type Feedback struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID     string    `gorm:"type:varchar(40);not null;index;column:course_id" json:"courseId"`
	LessonNumber int       `gorm:"not null;default:0;column:lesson_number" json:"lessonNumber"`
	Email        string    `gorm:"type:varchar(255);not null" json:"email"`
	FeedbackText string    `gorm:"type:text;not null;column:feedback_text" json:"feedbackText"`
	CreatedAt    time.Time `gorm:"column:created_at;index" json:"createdAt"`
}

// TableName overrides the default table name.
func (Feedback) TableName() string { return "lesson_feedback" }

// Store is the persistence contract for feedback.
type Store interface {
	Add(ctx context.Context, f Feedback) error
	// ListByCourses returns entries of the given courses, newest first.
	ListByCourses(ctx context.Context, courseIDs []string) ([]Feedback, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Add(ctx context.Context, f Feedback) error {
	return s.db.WithContext(ctx).Create(&f).Error
}

func (s *gormStore) ListByCourses(ctx context.Context, courseIDs []string) ([]Feedback, error) {
	if len(courseIDs) == 0 {
		return []Feedback{}, nil
	}

	var entries []Feedback
	err := s.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
