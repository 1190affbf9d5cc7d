package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCourseID(t *testing.T) {
	id, err := NormalizeCourseID("  Go_Basics-101 ")
	require.NoError(t, err)
	assert.Equal(t, "go_basics-101", id)

	for _, bad := range []string{"", "c", "-lead", "has space", "ünïcode"} {
		_, err := NormalizeCourseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseLessonNumber(t *testing.T) {
	n, err := ParseLessonNumber("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseLessonNumber("0")
	assert.Error(t, err)
	_, err = ParseLessonNumber("two")
	assert.Error(t, err)
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("student1@email.com"))
	assert.False(t, IsEmail("student1"))
}
