package progress

import "errors"

var (
	ErrNotPermitted  = errors.New("course is not in the learner's permitted set")
	ErrLessonLocked  = errors.New("lesson is locked until the previous lesson is completed")
	ErrInvalidLesson = errors.New("lesson number must be positive")
)
