package videoview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mo-amir99/course-server-go/pkg/logger"
)

type recordingStore struct {
	views []View
	err   error
}

func (s *recordingStore) Append(_ context.Context, v View) error {
	if s.err != nil {
		return s.err
	}
	s.views = append(s.views, v)
	return nil
}

func TestRecord(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := &recordingStore{}
	r := NewRecorder(store, logger.Discard())
	r.now = func() time.Time { return at }

	r.Record(context.Background(), "learner@example.com", "go101", 2)
	r.Record(context.Background(), "learner@example.com", "go101", 2)

	if assert.Len(t, store.views, 2) {
		assert.Equal(t, "go101", store.views[0].CourseID)
		assert.Equal(t, 2, store.views[0].LessonNumber)
		assert.Equal(t, at, store.views[0].ViewTime)
		assert.NotEqual(t, store.views[0].ID, store.views[1].ID)
	}
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	store := &recordingStore{err: errors.New("connection reset")}
	r := NewRecorder(store, logger.Discard())

	assert.NotPanics(t, func() { r.Record(context.Background(), "learner@example.com", "go101", 1) })
	assert.Empty(t, store.views)
}
