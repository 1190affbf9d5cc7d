package quiz

import "errors"

var (
	ErrQuizNotFound         = errors.New("no quiz is authored for this lesson")
	ErrQuizIncomplete       = errors.New("a quiz needs exactly five non-empty question/answer pairs")
	ErrIncompleteSubmission = errors.New("every question needs an answer")
)
