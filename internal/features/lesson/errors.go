package lesson

import "errors"

var (
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrInvalidNumber     = errors.New("lesson number must be positive")
	ErrContentRequired   = errors.New("a video or document reference is required")
	ErrInvalidContentURL = errors.New("content references must be http(s) URLs")
)
