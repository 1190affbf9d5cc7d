package quiz_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/internal/features/quiz"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/storage/memstore"
	"github.com/mo-amir99/course-server-go/pkg/logger"
)

const learner = "learner@example.com"

func newEngine(t *testing.T) (*quiz.Engine, *progress.Gate) {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()
	mem := memstore.New()

	_, err := user.NewService(mem.Users(), log).Create(ctx, user.CreateInput{
		Email: learner, Password: "password1", FullName: "Learner", Permissions: []string{"go101"},
	})
	require.NoError(t, err)
	_, _, err = mem.Courses().Upsert(ctx, course.Course{ID: "go101", Name: "Go 101"})
	require.NoError(t, err)
	for n := 1; n <= 2; n++ {
		_, _, err := mem.Lessons().Upsert(ctx, lesson.Lesson{CourseID: "go101", Number: n, PDFURL: "https://cdn.example.com/a.pdf"})
		require.NoError(t, err)
	}

	gate := progress.NewGate(mem.Progress(), mem.Users(), log)
	return quiz.NewEngine(mem.Quizzes(), mem.Lessons(), gate, log), gate
}

func pairs(n int) []quiz.Pair {
	out := make([]quiz.Pair, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, quiz.Pair{Question: fmt.Sprintf("Question %d?", i), Answer: fmt.Sprintf("Answer %d", i)})
	}
	return out
}

func answers() []string {
	return []string{"answer 1", "ANSWER 2", " Answer 3 ", "answer 4", "answer 5"}
}

func TestSaveQuiz(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	saved, err := engine.SaveQuiz(ctx, "go101", 1, pairs(5))
	require.NoError(t, err)
	require.Len(t, saved, quiz.QuestionsPerQuiz)
	assert.Equal(t, 5, saved[4].Number)

	// Rejected saves leave the stored quiz as it was.
	_, err = engine.SaveQuiz(ctx, "go101", 1, pairs(4))
	assert.ErrorIs(t, err, quiz.ErrQuizIncomplete)

	blank := pairs(5)
	blank[2].Answer = "   "
	_, err = engine.SaveQuiz(ctx, "go101", 1, blank)
	assert.ErrorIs(t, err, quiz.ErrQuizIncomplete)

	assert.Len(t, engine.GetQuiz(ctx, "go101", 1), quiz.QuestionsPerQuiz)
	assert.Equal(t, "Answer 3", engine.GetQuiz(ctx, "go101", 1)[2].Answer)

	_, err = engine.SaveQuiz(ctx, "go101", 9, pairs(5))
	assert.ErrorIs(t, err, lesson.ErrLessonNotFound)
}

func TestForLearnerHidesAnswers(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	_, err := engine.ForLearner(ctx, learner, "go101", 1)
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)

	_, err = engine.SaveQuiz(ctx, "go101", 1, pairs(5))
	require.NoError(t, err)

	questions, err := engine.ForLearner(ctx, learner, "go101", 1)
	require.NoError(t, err)
	require.Len(t, questions, 5)
	assert.Equal(t, quiz.PublicQuestion{Number: 1, Question: "Question 1?"}, questions[0])

	_, err = engine.ForLearner(ctx, learner, "go101", 2)
	assert.ErrorIs(t, err, progress.ErrLessonLocked)
}

func TestSubmit(t *testing.T) {
	engine, gate := newEngine(t)
	ctx := context.Background()

	_, err := engine.Submit(ctx, learner, "go101", 1, answers())
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)

	_, err = engine.SaveQuiz(ctx, "go101", 1, pairs(5))
	require.NoError(t, err)

	_, err = engine.Submit(ctx, learner, "go101", 1, answers()[:4])
	assert.ErrorIs(t, err, quiz.ErrIncompleteSubmission)

	withBlank := answers()
	withBlank[1] = " "
	_, err = engine.Submit(ctx, learner, "go101", 1, withBlank)
	assert.ErrorIs(t, err, quiz.ErrIncompleteSubmission)

	wrong := answers()
	wrong[4] = "no idea"
	result, err := engine.Submit(ctx, learner, "go101", 1, wrong)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 4, result.Score)
	assert.Nil(t, result.Progress)
	assert.False(t, gate.CanAccessLesson(ctx, learner, "go101", 2))

	result, err = engine.Submit(ctx, learner, "go101", 1, answers())
	require.NoError(t, err)
	assert.True(t, result.Passed)
	require.NotNil(t, result.Progress)
	assert.Equal(t, 2, result.Progress.CurrentLesson)
	assert.True(t, gate.CanAccessLesson(ctx, learner, "go101", 2))

	// Passing again keeps the frontier where it is.
	result, err = engine.Submit(ctx, learner, "go101", 1, answers())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Progress.CurrentLesson)
}
