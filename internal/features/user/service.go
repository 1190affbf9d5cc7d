package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mo-amir99/course-server-go/internal/storage"
	"github.com/mo-amir99/course-server-go/pkg/pagination"
	"github.com/mo-amir99/course-server-go/pkg/validation"
)

// Service implements administrator operations on users.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a user service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create validates input, hashes the password and stores a new user.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	email := NormalizeEmail(input.Email)
	if !validation.IsEmail(email) {
		return User{}, ErrInvalidEmail
	}
	if len(input.Password) < 8 {
		return User{}, ErrInvalidPassword
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return User{}, ErrFullNameRequired
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	created, err := s.store.Create(ctx, User{
		Email:       email,
		Password:    hashed,
		FullName:    fullName,
		Permissions: NewPermissionSet(input.Permissions).Slice(),
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, err
		}
		return User{}, storage.Unavailable(err)
	}

	s.logger.InfoContext(ctx, "user created", slog.String("email", created.Email), slog.Bool("admin", created.IsAdmin()))
	return created, nil
}

// ListLearners returns users that are not administrators.
func (s *Service) ListLearners(ctx context.Context, filters ListFilters, params pagination.Params) ([]User, int64, error) {
	users, total, err := s.store.ListLearners(ctx, filters, params)
	if err != nil {
		return nil, 0, storage.Unavailable(err)
	}
	return users, total, nil
}

// SetPermissions replaces a learner's permitted course set.
func (s *Service) SetPermissions(ctx context.Context, email string, courseIDs []string) (User, error) {
	normalized := make([]string, 0, len(courseIDs))
	for _, raw := range courseIDs {
		id, err := validation.NormalizeCourseID(raw)
		if err != nil || id == AdminPermission {
			return User{}, ErrInvalidPermission
		}
		normalized = append(normalized, id)
	}

	target, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, err
		}
		return User{}, storage.Unavailable(err)
	}
	if target.IsAdmin() {
		return User{}, ErrAdminNotEditable
	}

	updated, err := s.store.SetPermissions(ctx, target.Email, NewPermissionSet(normalized).Courses())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, err
		}
		return User{}, storage.Unavailable(err)
	}

	s.logger.InfoContext(ctx, "course access updated",
		slog.String("email", updated.Email),
		slog.Any("courses", []string(updated.Permissions)),
	)
	return updated, nil
}

// EnsureAdmin creates an administrator account if no user with that email exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	_, err := s.store.Get(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, storage.Unavailable(err)
	}

	if _, err := s.Create(ctx, CreateInput{
		Email:       email,
		Password:    password,
		FullName:    fullName,
		Permissions: []string{AdminPermission},
	}); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
