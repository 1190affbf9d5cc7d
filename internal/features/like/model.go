package like

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Like marks that a learner liked a lesson. Presence of the row is the like.
type Like struct {
	CourseID     string    `gorm:"type:varchar(40);primaryKey;column:course_id" json:"courseId"`
	LessonNumber int       `gorm:"primaryKey;autoIncrement:false;column:lesson_number" json:"lessonNumber"`
	Email        string    `gorm:"type:varchar(255);primaryKey" json:"email"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName overrides the default table name.
func (Like) TableName() string { return "lesson_likes" }

// Summary is the like counter of one lesson as seen by one learner.
type Summary struct {
	Total int64 `json:"total"`
	Liked bool  `json:"liked"`
}

// Store is the persistence contract for likes.
type Store interface {
	// Toggle inserts or deletes the like and reports whether it now exists.
	Toggle(ctx context.Context, courseID string, lesson int, email string) (bool, error)
	// Summaries returns counters keyed by lesson number for lessons with at least one like.
	Summaries(ctx context.Context, courseID, email string) (map[int]Summary, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Toggle(ctx context.Context, courseID string, lesson int, email string) (bool, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed := tx.Where("course_id = ? AND lesson_number = ? AND email = ?", courseID, lesson, email).Delete(&Like{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			liked = false
			return nil
		}

		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&Like{
			CourseID:     courseID,
			LessonNumber: lesson,
			Email:        email,
			CreatedAt:    time.Now(),
		}).Error
	})
	return liked, err
}

func (s *gormStore) Summaries(ctx context.Context, courseID, email string) (map[int]Summary, error) {
	var rows []struct {
		LessonNumber int
		Total        int64
		Liked        bool
	}
	err := s.db.WithContext(ctx).Model(&Like{}).
		Select("lesson_number, COUNT(*) AS total, BOOL_OR(email = ?) AS liked", email).
		Where("course_id = ?", courseID).
		Group("lesson_number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make(map[int]Summary, len(rows))
	for _, row := range rows {
		summaries[row.LessonNumber] = Summary{Total: row.Total, Liked: row.Liked}
	}
	return summaries, nil
}
