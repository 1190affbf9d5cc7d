// Package memstore keeps every table of the server in process memory. It backs
// the feature stores in tests and when the server runs with the memory driver.
// One mutex serialises all access, which gives every operation the atomicity
// the PostgreSQL stores get from transactions and row locks.
package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/feedback"
	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/like"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/internal/features/quiz"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/features/videoview"
)

type lessonKey struct {
	courseID string
	number   int
}

type progressKey struct {
	email    string
	courseID string
}

type likeKey struct {
	lessonKey
	email string
}

// Store holds all rows.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users     map[string]user.User
	attempts  []auth.LoginAttempt
	sessions  map[uuid.UUID]auth.Session
	courses   map[string]course.Course
	lessons   map[lessonKey]lesson.Lesson
	questions map[lessonKey][]quiz.Question
	progress  map[progressKey]progress.StudentProgress
	likes     map[likeKey]like.Like
	feedback  []feedback.Feedback
	views     []videoview.View
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:       time.Now,
		users:     make(map[string]user.User),
		sessions:  make(map[uuid.UUID]auth.Session),
		courses:   make(map[string]course.Course),
		lessons:   make(map[lessonKey]lesson.Lesson),
		questions: make(map[lessonKey][]quiz.Question),
		progress:  make(map[progressKey]progress.StudentProgress),
		likes:     make(map[likeKey]like.Like),
	}
}

// Users returns the user store view.
func (s *Store) Users() user.Store { return &userStore{s} }

// Auth returns the session and login-attempt store view.
func (s *Store) Auth() auth.Store { return &authStore{s} }

// Progress returns the progress store view.
func (s *Store) Progress() progress.Store { return &progressStore{s} }

// Courses returns the course store view.
func (s *Store) Courses() course.Store { return &courseStore{s} }

// Lessons returns the lesson store view.
func (s *Store) Lessons() lesson.Store { return &lessonStore{s} }

// Quizzes returns the quiz store view.
func (s *Store) Quizzes() quiz.Store { return &quizStore{s} }

// Likes returns the like store view.
func (s *Store) Likes() like.Store { return &likeStore{s} }

// Feedback returns the feedback store view.
func (s *Store) Feedback() feedback.Store { return &feedbackStore{s} }

// Views returns the video view store view.
func (s *Store) Views() videoview.Store { return &viewStore{s} }

// ViewCount returns the number of logged video views for a lesson.
func (s *Store) ViewCount(courseID string, number int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, v := range s.views {
		if v.CourseID == courseID && v.LessonNumber == number {
			count++
		}
	}
	return count
}
