package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/mo-amir99/course-server-go/internal/features/progress"
)

type progressStore struct{ s *Store }

func copyProgress(p progress.StudentProgress) progress.StudentProgress {
	p.CompletedLessons = append(pq.Int64Array{}, p.CompletedLessons...)
	return p
}

func (ps *progressStore) Get(_ context.Context, email, courseID string) (progress.StudentProgress, bool, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	p, ok := ps.s.progress[progressKey{email, courseID}]
	if !ok {
		return progress.Start(email, courseID), false, nil
	}
	return copyProgress(p), true, nil
}

func (ps *progressStore) RecordPass(_ context.Context, email, courseID string, lesson int, at time.Time) (progress.StudentProgress, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	key := progressKey{email, courseID}
	current, ok := ps.s.progress[key]
	if !ok {
		current = progress.Start(email, courseID)
	}

	next, changed, err := progress.Advance(current, lesson)
	if err != nil {
		return progress.StudentProgress{}, err
	}
	if !changed {
		return copyProgress(current), nil
	}

	next.UpdatedAt = at
	ps.s.progress[key] = copyProgress(next)
	return next, nil
}

func (ps *progressStore) Overview(_ context.Context, email string) ([]progress.OverviewRow, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	rows := make([]progress.OverviewRow, 0)
	for key, p := range ps.s.progress {
		if key.email != email {
			continue
		}
		c, ok := ps.s.courses[key.courseID]
		if !ok {
			continue
		}

		var total int64
		for lk := range ps.s.lessons {
			if lk.courseID == key.courseID {
				total++
			}
		}
		rows = append(rows, progress.OverviewRow{
			CourseID:         c.ID,
			CourseName:       c.Name,
			CurrentLesson:    p.CurrentLesson,
			CompletedLessons: append(pq.Int64Array{}, p.CompletedLessons...),
			TotalLessons:     total,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CourseName < rows[j].CourseName })
	return rows, nil
}
