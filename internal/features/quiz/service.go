package quiz

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/internal/storage"
	"github.com/mo-amir99/course-server-go/pkg/metrics"
)

// Engine stores lesson quizzes and grades submissions.
type Engine struct {
	store   Store
	lessons lesson.Store
	gate    *progress.Gate
	logger  *slog.Logger
}

// NewEngine constructs a quiz engine.
func NewEngine(store Store, lessons lesson.Store, gate *progress.Gate, logger *slog.Logger) *Engine {
	return &Engine{store: store, lessons: lessons, gate: gate, logger: logger}
}

// GetQuiz returns the lesson's questions with answers, empty when none are authored
// or the store cannot be read.
func (e *Engine) GetQuiz(ctx context.Context, courseID string, lessonNumber int) []Question {
	return storage.ReadOr(ctx, e.logger, "quiz.questions", []Question{}, func(ctx context.Context) ([]Question, error) {
		questions, err := e.store.Questions(ctx, courseID, lessonNumber)
		if questions == nil && err == nil {
			questions = []Question{}
		}
		return questions, err
	})
}

// ForLearner returns the questions of an accessible lesson without their answers.
func (e *Engine) ForLearner(ctx context.Context, email, courseID string, lessonNumber int) ([]PublicQuestion, error) {
	if err := e.gate.CheckLessonAccess(ctx, email, courseID, lessonNumber); err != nil {
		return nil, err
	}

	questions := e.GetQuiz(ctx, courseID, lessonNumber)
	if len(questions) == 0 {
		return nil, ErrQuizNotFound
	}

	public := make([]PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, PublicQuestion{Number: q.Number, Question: q.Question})
	}
	return public, nil
}

// SaveQuiz replaces the lesson's quiz with exactly five pairs numbered in input order.
// A rejected save leaves the stored quiz untouched.
func (e *Engine) SaveQuiz(ctx context.Context, courseID string, lessonNumber int, pairs []Pair) ([]Question, error) {
	if len(pairs) != QuestionsPerQuiz {
		return nil, ErrQuizIncomplete
	}

	questions := make([]Question, 0, QuestionsPerQuiz)
	for i, pair := range pairs {
		question := strings.TrimSpace(pair.Question)
		answer := strings.TrimSpace(pair.Answer)
		if question == "" || answer == "" {
			return nil, ErrQuizIncomplete
		}
		questions = append(questions, Question{
			CourseID:     courseID,
			LessonNumber: lessonNumber,
			Number:       i + 1,
			Question:     question,
			Answer:       answer,
		})
	}

	if _, err := e.lessons.Get(ctx, courseID, lessonNumber); err != nil {
		if errors.Is(err, lesson.ErrLessonNotFound) {
			return nil, err
		}
		return nil, storage.Unavailable(err)
	}

	if err := e.store.Replace(ctx, courseID, lessonNumber, questions); err != nil {
		return nil, storage.Unavailable(err)
	}

	e.logger.InfoContext(ctx, "quiz saved", slog.String("course", courseID), slog.Int("lesson", lessonNumber))
	return questions, nil
}

// QuestionResult is the outcome of one answered question.
type QuestionResult struct {
	Number         int    `json:"questionNumber"`
	Correct        bool   `json:"correct"`
	ExpectedAnswer string `json:"expectedAnswer,omitempty"`
}

// Result is a graded submission. Progress is set when the pass was recorded.
type Result struct {
	Score    int                       `json:"score"`
	Total    int                       `json:"total"`
	Passed   bool                      `json:"passed"`
	Results  []QuestionResult          `json:"results"`
	Progress *progress.StudentProgress `json:"progress,omitempty"`
}

// Grade compares answers to questions position by position after trimming and
// lower-casing both sides. Passing needs every answer right.
func Grade(questions []Question, answers []string) Result {
	result := Result{
		Total:   len(questions),
		Results: make([]QuestionResult, 0, len(questions)),
	}

	for i, q := range questions {
		var given string
		if i < len(answers) {
			given = answers[i]
		}

		qr := QuestionResult{Number: q.Number, Correct: normalize(given) == normalize(q.Answer)}
		if qr.Correct {
			result.Score++
		} else {
			qr.ExpectedAnswer = q.Answer
		}
		result.Results = append(result.Results, qr)
	}

	result.Passed = result.Total > 0 && result.Score == result.Total
	return result
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Submit grades a learner's answers and records the pass when every answer is right.
func (e *Engine) Submit(ctx context.Context, email, courseID string, lessonNumber int, answers []string) (Result, error) {
	if err := e.gate.CheckLessonAccess(ctx, email, courseID, lessonNumber); err != nil {
		return Result{}, err
	}

	questions := e.GetQuiz(ctx, courseID, lessonNumber)
	if len(questions) == 0 {
		return Result{}, ErrQuizNotFound
	}

	if len(answers) != len(questions) {
		return Result{}, ErrIncompleteSubmission
	}
	for _, answer := range answers {
		if strings.TrimSpace(answer) == "" {
			return Result{}, ErrIncompleteSubmission
		}
	}

	result := Grade(questions, answers)
	metrics.RecordQuizSubmission(result.Passed)

	if !result.Passed {
		e.logger.InfoContext(ctx, "quiz failed",
			slog.String("email", email),
			slog.String("course", courseID),
			slog.Int("lesson", lessonNumber),
			slog.Int("score", result.Score),
		)
		return result, nil
	}

	p, err := e.gate.RecordQuizPass(ctx, email, courseID, lessonNumber)
	if err != nil {
		return Result{}, err
	}
	result.Progress = &p
	return result, nil
}
