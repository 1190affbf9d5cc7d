package feedback_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/feedback"
	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/storage/memstore"
	"github.com/mo-amir99/course-server-go/pkg/logger"
)

const (
	learner = "learner@example.com"
	other   = "other@example.com"
	admin   = "admin@example.com"
)

func newService(t *testing.T) (*feedback.Service, *progress.Gate) {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()
	mem := memstore.New()
	users := user.NewService(mem.Users(), log)

	for _, in := range []user.CreateInput{
		{Email: learner, Password: "password1", FullName: "Learner", Permissions: []string{"go101"}},
		{Email: other, Password: "password1", FullName: "Other", Permissions: []string{"rust"}},
		{Email: admin, Password: "password1", FullName: "Admin", Permissions: []string{user.AdminPermission}},
	} {
		_, err := users.Create(ctx, in)
		require.NoError(t, err)
	}
	for _, c := range []course.Course{{ID: "go101", Name: "Go 101"}, {ID: "rust", Name: "Rust"}, {ID: "empty", Name: "Empty"}} {
		_, _, err := mem.Courses().Upsert(ctx, c)
		require.NoError(t, err)
	}
	for _, courseID := range []string{"go101", "rust"} {
		for n := 1; n <= 2; n++ {
			_, _, err := mem.Lessons().Upsert(ctx, lesson.Lesson{CourseID: courseID, Number: n, PDFURL: "https://cdn.example.com/a.pdf"})
			require.NoError(t, err)
		}
	}

	gate := progress.NewGate(mem.Progress(), mem.Users(), log)
	return feedback.NewService(mem.Feedback(), mem.Courses(), mem.Lessons(), gate, log), gate
}

func complete(t *testing.T, gate *progress.Gate, email, courseID string) {
	t.Helper()
	for n := 1; n <= 2; n++ {
		_, err := gate.RecordQuizPass(context.Background(), email, courseID, n)
		require.NoError(t, err)
	}
}

func TestAddRequiresCompletedCourse(t *testing.T) {
	svc, gate := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, learner, "rust", "great")
	assert.ErrorIs(t, err, progress.ErrNotPermitted)

	_, err = svc.Add(ctx, learner, "go101", "great")
	assert.ErrorIs(t, err, feedback.ErrCourseNotCompleted)

	_, err = gate.RecordQuizPass(ctx, learner, "go101", 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, learner, "go101", "great")
	assert.ErrorIs(t, err, feedback.ErrCourseNotCompleted)

	_, err = gate.RecordQuizPass(ctx, learner, "go101", 2)
	require.NoError(t, err)

	_, err = svc.Add(ctx, learner, "go101", "   ")
	assert.ErrorIs(t, err, feedback.ErrTextRequired)
	_, err = svc.Add(ctx, learner, "go101", strings.Repeat("é", 4001))
	assert.ErrorIs(t, err, feedback.ErrTextTooLong)

	entry, err := svc.Add(ctx, learner, "go101", "  great course  ")
	require.NoError(t, err)
	assert.Equal(t, "great course", entry.FeedbackText)
	assert.Equal(t, feedback.CourseLevel, entry.LessonNumber)

	// A course without lessons can never be completed.
	_, err = svc.Add(ctx, admin, "empty", "nothing here")
	assert.ErrorIs(t, err, feedback.ErrCourseNotCompleted)
}

func TestListVisible(t *testing.T) {
	svc, gate := newService(t)
	ctx := context.Background()

	complete(t, gate, learner, "go101")
	complete(t, gate, other, "rust")

	_, err := svc.Add(ctx, learner, "go101", "first")
	require.NoError(t, err)
	_, err = svc.Add(ctx, other, "rust", "second")
	require.NoError(t, err)

	mine, err := svc.ListVisible(ctx, learner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "go101", mine[0].CourseID)

	all, err := svc.ListVisible(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCourse, err := svc.ListByCourse(ctx, other, "rust")
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, "second", byCourse[0].FeedbackText)

	_, err = svc.ListByCourse(ctx, other, "go101")
	assert.ErrorIs(t, err, progress.ErrNotPermitted)
}
