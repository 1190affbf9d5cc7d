package course_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/storage/memstore"
	"github.com/mo-amir99/course-server-go/pkg/apperrors"
	"github.com/mo-amir99/course-server-go/pkg/cache"
	"github.com/mo-amir99/course-server-go/pkg/logger"
)

// countingStore counts List calls to observe cache hits.
type countingStore struct {
	course.Store
	lists int
	fail  bool
}

func (s *countingStore) List(ctx context.Context) ([]course.Course, error) {
	s.lists++
	if s.fail {
		return nil, errors.New("connection refused")
	}
	return s.Store.List(ctx)
}

func TestCatalogCachesListing(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memstore.New().Courses()}
	catalog := course.NewCatalog(store, cache.NewMemoryCache(), time.Minute, logger.Discard())

	_, created, err := catalog.Upsert(ctx, course.UpsertInput{ID: " Go101 ", Name: "Go 101"})
	require.NoError(t, err)
	assert.True(t, created)

	first, err := catalog.List(ctx)
	require.NoError(t, err)
	second, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "go101", second[0].ID)

	// Writes invalidate the cached listing.
	_, _, err = catalog.Upsert(ctx, course.UpsertInput{ID: "rust", Name: "Rust"})
	require.NoError(t, err)
	listed, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, 2, store.lists)
}

func TestCatalogVisibleAndErrors(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memstore.New().Courses()}
	catalog := course.NewCatalog(store, nil, time.Minute, logger.Discard())

	for _, in := range []course.UpsertInput{{ID: "go101", Name: "Go 101"}, {ID: "rust", Name: "Rust"}} {
		_, _, err := catalog.Upsert(ctx, in)
		require.NoError(t, err)
	}

	visible, err := catalog.Visible(ctx, user.NewPermissionSet([]string{"rust"}))
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "rust", visible[0].ID)

	all, err := catalog.Visible(ctx, user.NewPermissionSet([]string{user.AdminPermission}))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, _, err = catalog.Upsert(ctx, course.UpsertInput{ID: "admin", Name: "Nope"})
	assert.ErrorIs(t, err, course.ErrInvalidID)
	_, _, err = catalog.Upsert(ctx, course.UpsertInput{ID: "go102", Name: " "})
	assert.ErrorIs(t, err, course.ErrNameRequired)

	assert.ErrorIs(t, catalog.Delete(ctx, "missing"), course.ErrCourseNotFound)

	store.fail = true
	_, err = catalog.List(ctx)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnavailable))
}
