package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already exists")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidPassword   = errors.New("password must be at least 8 characters")
	ErrFullNameRequired  = errors.New("full name is required")
	ErrInvalidPermission = errors.New("permissions must be course ids")
	ErrAdminNotEditable  = errors.New("administrator permissions cannot be edited here")
)
