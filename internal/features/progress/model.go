package progress

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StudentProgress is the access frontier of one learner in one course.
type StudentProgress struct {
	Email            string        `gorm:"type:varchar(255);primaryKey" json:"email"`
	CourseID         string        `gorm:"type:varchar(40);primaryKey;column:course_id" json:"courseId"`
	CurrentLesson    int           `gorm:"not null;default:1;column:current_lesson" json:"currentLesson"`
	CompletedLessons pq.Int64Array `gorm:"type:integer[];not null;default:'{}';column:completed_lessons" json:"completedLessons"`
	UpdatedAt        time.Time     `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName overrides the default table name.
func (StudentProgress) TableName() string { return "student_progress" }

// Start returns the implicit progress of a learner who has not passed any quiz yet.
func Start(email, courseID string) StudentProgress {
	return StudentProgress{
		Email:            email,
		CourseID:         courseID,
		CurrentLesson:    1,
		CompletedLessons: pq.Int64Array{},
	}
}

// HasCompleted reports whether the lesson's quiz was passed.
func (p StudentProgress) HasCompleted(lesson int) bool {
	for _, done := range p.CompletedLessons {
		if done == int64(lesson) {
			return true
		}
	}
	return false
}

// Accessible reports whether the lesson is at or behind the frontier.
func (p StudentProgress) Accessible(lesson int) bool {
	return lesson >= 1 && lesson <= p.CurrentLesson
}

// Status classifies a lesson for listings.
func (p StudentProgress) Status(lesson int) LessonStatus {
	switch {
	case p.HasCompleted(lesson):
		return StatusCompleted
	case p.Accessible(lesson):
		return StatusAvailable
	default:
		return StatusLocked
	}
}

// LessonStatus is how a lesson appears to a learner.
type LessonStatus string

const (
	StatusCompleted LessonStatus = "completed"
	StatusAvailable LessonStatus = "available"
	StatusLocked    LessonStatus = "locked"
)

// Advance applies a quiz pass for lesson and reports whether p changed.
// Only the lesson at the frontier moves it forward. Replaying a completed lesson
// is a no-op, and any other lesson is rejected so progress never regresses.
func Advance(p StudentProgress, lesson int) (StudentProgress, bool, error) {
	if lesson < 1 {
		return p, false, ErrInvalidLesson
	}
	if p.HasCompleted(lesson) {
		return p, false, nil
	}
	if lesson != p.CurrentLesson {
		return p, false, ErrLessonLocked
	}

	completed := make(pq.Int64Array, len(p.CompletedLessons), len(p.CompletedLessons)+1)
	copy(completed, p.CompletedLessons)
	p.CompletedLessons = append(completed, int64(lesson))
	p.CurrentLesson = lesson + 1
	return p, true, nil
}

// OverviewRow is one started course joined with its lesson count.
type OverviewRow struct {
	CourseID         string
	CourseName       string
	CurrentLesson    int
	CompletedLessons pq.Int64Array
	TotalLessons     int64
}

// Store is the persistence contract of the progress gate.
type Store interface {
	// Get returns the row and whether it exists.
	Get(ctx context.Context, email, courseID string) (StudentProgress, bool, error)
	// RecordPass applies Advance atomically for the (email, course) key.
	RecordPass(ctx context.Context, email, courseID string, lesson int, at time.Time) (StudentProgress, error)
	Overview(ctx context.Context, email string) ([]OverviewRow, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, email, courseID string) (StudentProgress, bool, error) {
	var p StudentProgress
	err := s.db.WithContext(ctx).First(&p, "email = ? AND course_id = ?", email, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Start(email, courseID), false, nil
	}
	if err != nil {
		return StudentProgress{}, false, err
	}
	return p, true, nil
}

func (s *gormStore) RecordPass(ctx context.Context, email, courseID string, lesson int, at time.Time) (StudentProgress, error) {
	var out StudentProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Two rounds at most: a concurrent first pass can win the insert race,
		// after which its row is locked and re-evaluated.
		for round := 0; round < 2; round++ {
			current, exists, err := lockProgress(tx, email, courseID)
			if err != nil {
				return err
			}

			next, changed, err := Advance(current, lesson)
			if err != nil {
				return err
			}
			if !changed {
				out = current
				return nil
			}
			next.UpdatedAt = at

			if exists {
				if err := tx.Model(&StudentProgress{}).
					Where("email = ? AND course_id = ?", email, courseID).
					Updates(map[string]interface{}{
						"current_lesson":    next.CurrentLesson,
						"completed_lessons": next.CompletedLessons,
						"updated_at":        at,
					}).Error; err != nil {
					return err
				}
				out = next
				return nil
			}

			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&next)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 1 {
				out = next
				return nil
			}
		}
		return errors.New("progress row changed concurrently")
	})
	return out, err
}

func lockProgress(tx *gorm.DB, email, courseID string) (StudentProgress, bool, error) {
	var p StudentProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "email = ? AND course_id = ?", email, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Start(email, courseID), false, nil
	}
	if err != nil {
		return StudentProgress{}, false, err
	}
	return p, true, nil
}

func (s *gormStore) Overview(ctx context.Context, email string) ([]OverviewRow, error) {
	var rows []OverviewRow
	err := s.db.WithContext(ctx).
		Table("student_progress sp").
		Select(`c.id AS course_id, c.name AS course_name, sp.current_lesson, sp.completed_lessons,
			(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS total_lessons`).
		Joins("JOIN courses c ON c.id = sp.course_id").
		Where("sp.email = ?", email).
		Order("c.name ASC").
		Scan(&rows).Error
	return rows, err
}
