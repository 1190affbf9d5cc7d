package progress

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name          string
		from          StudentProgress
		lesson        int
		wantErr       error
		wantChanged   bool
		wantCurrent   int
		wantCompleted []int64
	}{
		{"first pass", Start("a@b.co", "go101"), 1, nil, true, 2, []int64{1}},
		{"frontier", StudentProgress{CurrentLesson: 3, CompletedLessons: pq.Int64Array{1, 2}}, 3, nil, true, 4, []int64{1, 2, 3}},
		{"replay", StudentProgress{CurrentLesson: 3, CompletedLessons: pq.Int64Array{1, 2}}, 1, nil, false, 3, []int64{1, 2}},
		{"ahead", Start("a@b.co", "go101"), 2, ErrLessonLocked, false, 1, []int64{}},
		{"zero", Start("a@b.co", "go101"), 0, ErrInvalidLesson, false, 1, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Advance(tt.from, tt.lesson)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantCurrent, got.CurrentLesson)
			assert.Equal(t, tt.wantCompleted, []int64(got.CompletedLessons))
		})
	}
}

func TestAdvanceDoesNotAliasInput(t *testing.T) {
	from := StudentProgress{CurrentLesson: 2, CompletedLessons: make(pq.Int64Array, 1, 8)}
	from.CompletedLessons[0] = 1

	next, _, err := Advance(from, 2)
	require.NoError(t, err)
	next.CompletedLessons[0] = 99
	assert.Equal(t, int64(1), from.CompletedLessons[0])
}

func TestStatus(t *testing.T) {
	p := StudentProgress{CurrentLesson: 3, CompletedLessons: pq.Int64Array{1, 2}}

	assert.Equal(t, StatusCompleted, p.Status(1))
	assert.Equal(t, StatusAvailable, p.Status(3))
	assert.Equal(t, StatusLocked, p.Status(4))
	assert.False(t, p.Accessible(0))
}

func TestSummarise(t *testing.T) {
	summary := Summarise(OverviewRow{
		CourseID:         "go101",
		CourseName:       "Go 101",
		CurrentLesson:    2,
		CompletedLessons: pq.Int64Array{1},
		TotalLessons:     3,
	})
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 2, summary.Remaining)
	assert.Equal(t, "33.3", summary.Percent.String())

	empty := Summarise(OverviewRow{CourseID: "go101", CurrentLesson: 1})
	assert.Equal(t, "0", empty.Percent.String())
	assert.Equal(t, []int64{}, empty.CompletedLessons)
}
