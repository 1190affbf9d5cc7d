package feedback

import "errors"

var (
	ErrTextRequired       = errors.New("feedback text is required")
	ErrCourseNotCompleted = errors.New("feedback opens once every lesson of the course is completed")
	ErrTextTooLong        = errors.New("feedback text is too long")
)
