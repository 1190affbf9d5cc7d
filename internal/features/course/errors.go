package course

import "errors"

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNameRequired   = errors.New("course name is required")
	ErrInvalidID      = errors.New("invalid course id")
)
