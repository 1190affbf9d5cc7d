package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "courses", "[]", time.Minute))

	value, err := c.Get(ctx, "courses")
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "courses")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "courses", "[1]", 0))
	now = now.Add(23 * time.Hour)
	value, err = c.Get(ctx, "courses")
	require.NoError(t, err)
	assert.Equal(t, "[1]", value)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	type entry struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	require.NoError(t, SetJSON(ctx, c, "catalog", []entry{{ID: "c1", Name: "Go basics"}}, 0))

	var got []entry
	require.NoError(t, GetJSON(ctx, c, "catalog", &got))
	assert.Equal(t, []entry{{ID: "c1", Name: "Go basics"}}, got)

	require.NoError(t, c.Delete(ctx, "catalog"))
	assert.ErrorIs(t, GetJSON(ctx, c, "catalog", &got), ErrMiss)
}

func TestNewWithoutAddressUsesMemory(t *testing.T) {
	c, err := New("", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
}
