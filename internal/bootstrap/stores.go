package bootstrap

import (
	"gorm.io/gorm"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/feedback"
	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/like"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/internal/features/quiz"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/features/videoview"
	"github.com/mo-amir99/course-server-go/internal/storage/memstore"
)

// Stores bundles the persistence of every feature.
type Stores struct {
	Users    user.Store
	Auth     auth.Store
	Progress progress.Store
	Courses  course.Store
	Lessons  lesson.Store
	Quizzes  quiz.Store
	Likes    like.Store
	Feedback feedback.Store
	Views    videoview.Store
}

// GormStores returns PostgreSQL backed stores sharing one connection pool.
func GormStores(db *gorm.DB) Stores {
	return Stores{
		Users:    user.NewGormStore(db),
		Auth:     auth.NewGormStore(db),
		Progress: progress.NewGormStore(db),
		Courses:  course.NewGormStore(db),
		Lessons:  lesson.NewGormStore(db),
		Quizzes:  quiz.NewGormStore(db),
		Likes:    like.NewGormStore(db),
		Feedback: feedback.NewGormStore(db),
		Views:    videoview.NewGormStore(db),
	}
}

// MemoryStores returns stores over one in-process memstore.
func MemoryStores(m *memstore.Store) Stores {
	return Stores{
		Users:    m.Users(),
		Auth:     m.Auth(),
		Progress: m.Progress(),
		Courses:  m.Courses(),
		Lessons:  m.Lessons(),
		Quizzes:  m.Quizzes(),
		Likes:    m.Likes(),
		Feedback: m.Feedback(),
		Views:    m.Views(),
	}
}
