package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRateLimited        = errors.New("too many failed login attempts")
	ErrTooManySessions    = errors.New("maximum number of active sessions reached")
	ErrMissingFields      = errors.New("missing required fields")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)
