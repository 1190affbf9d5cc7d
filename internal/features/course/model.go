package course

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mo-amir99/course-server-go/pkg/types"
)

// Course is a catalog entry identified by a short slug.
type Course struct {
	ID     string `gorm:"type:varchar(40);primaryKey" json:"id"`
	Name   string `gorm:"type:varchar(200);not null;index" json:"name"`
	Topics string `gorm:"type:text;not null;default:''" json:"topics"`

	types.TimestampModel
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// UpsertInput carries the fields an administrator may set.
type UpsertInput struct {
	ID     string
	Name   string
	Topics string
}

// Store is the persistence contract for courses.
type Store interface {
	List(ctx context.Context) ([]Course, error)
	Get(ctx context.Context, id string) (Course, error)
	// Upsert creates the course or updates it in place and reports whether it was created.
	Upsert(ctx context.Context, c Course) (Course, bool, error)
	// Delete removes the course with its lessons, quizzes, likes, feedback, views
	// and progress, and revokes it from every user's permissions.
	Delete(ctx context.Context, id string) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) List(ctx context.Context) ([]Course, error) {
	var courses []Course
	err := s.db.WithContext(ctx).Order("name ASC").Find(&courses).Error
	return courses, err
}

func (s *gormStore) Get(ctx context.Context, id string) (Course, error) {
	var course Course
	if err := s.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return course, ErrCourseNotFound
		}
		return course, err
	}
	return course, nil
}

func (s *gormStore) Upsert(ctx context.Context, c Course) (Course, bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&Course{}).Where("id = ?", c.ID).Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		now := time.Now()
		c.UpdatedAt = now
		if created {
			c.CreatedAt = now
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "topics", "updated_at"}),
		}).Create(&c).Error
	})
	if err != nil {
		return Course{}, false, err
	}

	stored, err := s.Get(ctx, c.ID)
	return stored, created, err
}

func (s *gormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"quiz_questions", "lesson_likes", "lesson_feedback", "video_views", "student_progress", "lessons"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE course_id = ?", id).Error; err != nil {
				return err
			}
		}

		if err := tx.Exec("UPDATE users SET permissions = array_remove(permissions, ?) WHERE ? = ANY(permissions)", id, id).Error; err != nil {
			return err
		}

		result := tx.Delete(&Course{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}
