package like_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-server-go/internal/features/like"
	"github.com/mo-amir99/course-server-go/internal/storage/memstore"
	"github.com/mo-amir99/course-server-go/pkg/logger"
)

func TestToggle(t *testing.T) {
	ctx := context.Background()
	likes := like.NewService(memstore.New().Likes(), logger.Discard())

	steps := []struct {
		email string
		want  like.Summary
	}{
		{"a@example.com", like.Summary{Total: 1, Liked: true}},
		{"b@example.com", like.Summary{Total: 2, Liked: true}},
		{"a@example.com", like.Summary{Total: 1, Liked: false}},
		{"b@example.com", like.Summary{Total: 0, Liked: false}},
	}

	for _, step := range steps {
		got, err := likes.Toggle(ctx, "go101", 1, step.email)
		require.NoError(t, err)
		assert.Equal(t, step.want, got, step.email)
	}
}

func TestSummariesPerLesson(t *testing.T) {
	ctx := context.Background()
	likes := like.NewService(memstore.New().Likes(), logger.Discard())

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := likes.Toggle(ctx, "go101", 2, email)
		require.NoError(t, err)
	}
	_, err := likes.Toggle(ctx, "rust", 1, "a@example.com")
	require.NoError(t, err)

	summaries := likes.Summaries(ctx, "go101", "b@example.com")
	assert.Equal(t, map[int]like.Summary{2: {Total: 2, Liked: true}}, summaries)
	assert.Empty(t, likes.Summaries(ctx, "go101", "a@example.com")[1])
}
