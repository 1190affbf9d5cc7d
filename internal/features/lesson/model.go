package lesson

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mo-amir99/course-server-go/pkg/types"
)

// Lesson is one numbered unit of a course holding a video and/or a document reference.
type Lesson struct {
	CourseID string `gorm:"type:varchar(40);primaryKey;column:course_id" json:"courseId"`
	Number   int    `gorm:"primaryKey;autoIncrement:false;column:lesson_number" json:"lessonNumber"`
	Title    string `gorm:"type:varchar(200);not null;default:''" json:"title"`
	VideoURL string `gorm:"type:text;not null;default:'';column:video_url" json:"videoUrl"`
	PDFURL   string `gorm:"type:text;not null;default:'';column:pdf_url" json:"pdfUrl"`

	types.TimestampModel
}

// TableName overrides the default table name.
func (Lesson) TableName() string { return "lessons" }

// Summary is a lesson with the number of quiz questions authored for it.
type Summary struct {
	Lesson
	QuizQuestions int64 `gorm:"column:quiz_count" json:"quizQuestions"`
}

// UpsertInput carries the fields an administrator may set.
type UpsertInput struct {
	CourseID string
	Number   int
	Title    string
	VideoURL string
	PDFURL   string
}

// Store is the persistence contract for lessons.
type Store interface {
	List(ctx context.Context, courseID string) ([]Summary, error)
	Get(ctx context.Context, courseID string, number int) (Lesson, error)
	Upsert(ctx context.Context, l Lesson) (Lesson, bool, error)
	// Delete removes the lesson with its quiz and likes.
	Delete(ctx context.Context, courseID string, number int) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) List(ctx context.Context, courseID string) ([]Summary, error) {
	var lessons []Summary
	err := s.db.WithContext(ctx).
		Model(&Lesson{}).
		Select(`lessons.*, (SELECT COUNT(*) FROM quiz_questions q
			WHERE q.course_id = lessons.course_id AND q.lesson_number = lessons.lesson_number) AS quiz_count`).
		Where("lessons.course_id = ?", courseID).
		Order("lessons.lesson_number ASC").
		Scan(&lessons).Error
	return lessons, err
}

func (s *gormStore) Get(ctx context.Context, courseID string, number int) (Lesson, error) {
	var l Lesson
	if err := s.db.WithContext(ctx).First(&l, "course_id = ? AND lesson_number = ?", courseID, number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return l, ErrLessonNotFound
		}
		return l, err
	}
	return l, nil
}

func (s *gormStore) Upsert(ctx context.Context, l Lesson) (Lesson, bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Lesson{}).
			Where("course_id = ? AND lesson_number = ?", l.CourseID, l.Number).
			Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		now := time.Now()
		l.CreatedAt = now
		l.UpdatedAt = now
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "lesson_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "video_url", "pdf_url", "updated_at"}),
		}).Create(&l).Error
	})
	if err != nil {
		return Lesson{}, false, err
	}

	stored, err := s.Get(ctx, l.CourseID, l.Number)
	return stored, created, err
}

func (s *gormStore) Delete(ctx context.Context, courseID string, number int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"quiz_questions", "lesson_likes"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE course_id = ? AND lesson_number = ?", courseID, number).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&Lesson{}, "course_id = ? AND lesson_number = ?", courseID, number)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLessonNotFound
		}
		return nil
	})
}
