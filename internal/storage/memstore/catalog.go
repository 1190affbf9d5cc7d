package memstore

import (
	"context"
	"sort"

	"github.com/lib/pq"

	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/feedback"
	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/like"
	"github.com/mo-amir99/course-server-go/internal/features/quiz"
	"github.com/mo-amir99/course-server-go/internal/features/videoview"
)

type courseStore struct{ s *Store }

func (cs *courseStore) List(_ context.Context) ([]course.Course, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	courses := make([]course.Course, 0, len(cs.s.courses))
	for _, c := range cs.s.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Name == courses[j].Name {
			return courses[i].ID < courses[j].ID
		}
		return courses[i].Name < courses[j].Name
	})
	return courses, nil
}

func (cs *courseStore) Get(_ context.Context, id string) (course.Course, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	c, ok := cs.s.courses[id]
	if !ok {
		return course.Course{}, course.ErrCourseNotFound
	}
	return c, nil
}

func (cs *courseStore) Upsert(_ context.Context, c course.Course) (course.Course, bool, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	now := cs.s.now()
	existing, found := cs.s.courses[c.ID]
	if found {
		c.CreatedAt = existing.CreatedAt
	} else {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	cs.s.courses[c.ID] = c
	return c, !found, nil
}

func (cs *courseStore) Delete(_ context.Context, id string) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	if _, ok := cs.s.courses[id]; !ok {
		return course.ErrCourseNotFound
	}

	for key := range cs.s.lessons {
		if key.courseID == id {
			delete(cs.s.lessons, key)
		}
	}
	for key := range cs.s.questions {
		if key.courseID == id {
			delete(cs.s.questions, key)
		}
	}
	for key := range cs.s.likes {
		if key.courseID == id {
			delete(cs.s.likes, key)
		}
	}
	for key := range cs.s.progress {
		if key.courseID == id {
			delete(cs.s.progress, key)
		}
	}

	keptFeedback := cs.s.feedback[:0]
	for _, f := range cs.s.feedback {
		if f.CourseID != id {
			keptFeedback = append(keptFeedback, f)
		}
	}
	cs.s.feedback = keptFeedback

	keptViews := cs.s.views[:0]
	for _, v := range cs.s.views {
		if v.CourseID != id {
			keptViews = append(keptViews, v)
		}
	}
	cs.s.views = keptViews

	for email, u := range cs.s.users {
		perms := make(pq.StringArray, 0, len(u.Permissions))
		for _, p := range u.Permissions {
			if p != id {
				perms = append(perms, p)
			}
		}
		u.Permissions = perms
		cs.s.users[email] = u
	}

	delete(cs.s.courses, id)
	return nil
}

type lessonStore struct{ s *Store }

func (ls *lessonStore) List(_ context.Context, courseID string) ([]lesson.Summary, error) {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	lessons := make([]lesson.Summary, 0)
	for key, l := range ls.s.lessons {
		if key.courseID != courseID {
			continue
		}
		lessons = append(lessons, lesson.Summary{
			Lesson:        l,
			QuizQuestions: int64(len(ls.s.questions[key])),
		})
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Number < lessons[j].Number })
	return lessons, nil
}

func (ls *lessonStore) Get(_ context.Context, courseID string, number int) (lesson.Lesson, error) {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	l, ok := ls.s.lessons[lessonKey{courseID, number}]
	if !ok {
		return lesson.Lesson{}, lesson.ErrLessonNotFound
	}
	return l, nil
}

func (ls *lessonStore) Upsert(_ context.Context, l lesson.Lesson) (lesson.Lesson, bool, error) {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	key := lessonKey{l.CourseID, l.Number}
	now := ls.s.now()
	existing, found := ls.s.lessons[key]
	if found {
		l.CreatedAt = existing.CreatedAt
	} else {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	ls.s.lessons[key] = l
	return l, !found, nil
}

func (ls *lessonStore) Delete(_ context.Context, courseID string, number int) error {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	key := lessonKey{courseID, number}
	if _, ok := ls.s.lessons[key]; !ok {
		return lesson.ErrLessonNotFound
	}
	delete(ls.s.lessons, key)
	delete(ls.s.questions, key)
	for k := range ls.s.likes {
		if k.lessonKey == key {
			delete(ls.s.likes, k)
		}
	}
	return nil
}

type quizStore struct{ s *Store }

func (qs *quizStore) Questions(_ context.Context, courseID string, number int) ([]quiz.Question, error) {
	qs.s.mu.Lock()
	defer qs.s.mu.Unlock()

	return append([]quiz.Question{}, qs.s.questions[lessonKey{courseID, number}]...), nil
}

func (qs *quizStore) Replace(_ context.Context, courseID string, number int, questions []quiz.Question) error {
	qs.s.mu.Lock()
	defer qs.s.mu.Unlock()

	key := lessonKey{courseID, number}
	if len(questions) == 0 {
		delete(qs.s.questions, key)
		return nil
	}
	qs.s.questions[key] = append([]quiz.Question{}, questions...)
	return nil
}

type likeStore struct{ s *Store }

func (ks *likeStore) Toggle(_ context.Context, courseID string, number int, email string) (bool, error) {
	ks.s.mu.Lock()
	defer ks.s.mu.Unlock()

	key := likeKey{lessonKey{courseID, number}, email}
	if _, ok := ks.s.likes[key]; ok {
		delete(ks.s.likes, key)
		return false, nil
	}
	ks.s.likes[key] = like.Like{
		CourseID:     courseID,
		LessonNumber: number,
		Email:        email,
		CreatedAt:    ks.s.now(),
	}
	return true, nil
}

func (ks *likeStore) Summaries(_ context.Context, courseID, email string) (map[int]like.Summary, error) {
	ks.s.mu.Lock()
	defer ks.s.mu.Unlock()

	summaries := make(map[int]like.Summary)
	for key := range ks.s.likes {
		if key.courseID != courseID {
			continue
		}
		summary := summaries[key.number]
		summary.Total++
		if key.email == email {
			summary.Liked = true
		}
		summaries[key.number] = summary
	}
	return summaries, nil
}

type feedbackStore struct{ s *Store }

func (fs *feedbackStore) Add(_ context.Context, f feedback.Feedback) error {
	fs.s.mu.Lock()
	defer fs.s.mu.Unlock()

	fs.s.feedback = append(fs.s.feedback, f)
	return nil
}

func (fs *feedbackStore) ListByCourses(_ context.Context, courseIDs []string) ([]feedback.Feedback, error) {
	fs.s.mu.Lock()
	defer fs.s.mu.Unlock()

	wanted := make(map[string]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = struct{}{}
	}

	entries := make([]feedback.Feedback, 0)
	for i := len(fs.s.feedback) - 1; i >= 0; i-- {
		if _, ok := wanted[fs.s.feedback[i].CourseID]; ok {
			entries = append(entries, fs.s.feedback[i])
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

type viewStore struct{ s *Store }

func (vs *viewStore) Append(_ context.Context, v videoview.View) error {
	vs.s.mu.Lock()
	defer vs.s.mu.Unlock()

	vs.s.views = append(vs.s.views, v)
	return nil
}
