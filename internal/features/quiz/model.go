package quiz

import (
	"context"

	"gorm.io/gorm"
)

// QuestionsPerQuiz is the exact number of question/answer pairs of a lesson quiz.
const QuestionsPerQuiz = 5

// Question is one numbered question of a lesson quiz.
type Question struct {
	CourseID     string `gorm:"type:varchar(40);primaryKey;column:course_id" json:"courseId"`
	LessonNumber int    `gorm:"primaryKey;autoIncrement:false;column:lesson_number" json:"lessonNumber"`
	Number       int    `gorm:"primaryKey;autoIncrement:false;column:question_number" json:"questionNumber"`
	Question     string `gorm:"type:text;not null" json:"question"`
	Answer       string `gorm:"type:text;not null" json:"answer"`
}

// TableName overrides the default table name.
func (Question) TableName() string { return "quiz_questions" }

// PublicQuestion is a question as shown to a learner.
type PublicQuestion struct {
	Number   int    `json:"questionNumber"`
	Question string `json:"question"`
}

// Pair is one authored question with its expected answer.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Store is the persistence contract for quizzes.
type Store interface {
	// Questions returns the lesson's questions ordered by number.
	Questions(ctx context.Context, courseID string, lesson int) ([]Question, error)
	// Replace swaps the lesson's quiz for the given questions in one transaction.
	Replace(ctx context.Context, courseID string, lesson int, questions []Question) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Questions(ctx context.Context, courseID string, lesson int) ([]Question, error) {
	var questions []Question
	err := s.db.WithContext(ctx).
		Where("course_id = ? AND lesson_number = ?", courseID, lesson).
		Order("question_number ASC").
		Find(&questions).Error
	return questions, err
}

func (s *gormStore) Replace(ctx context.Context, courseID string, lesson int, questions []Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ? AND lesson_number = ?", courseID, lesson).Delete(&Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}
