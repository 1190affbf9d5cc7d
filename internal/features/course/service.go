package course

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/storage"
	"github.com/mo-amir99/course-server-go/pkg/cache"
	"github.com/mo-amir99/course-server-go/pkg/validation"
)

const catalogCacheKey = "catalog:courses"

// Catalog serves courses with the full listing cached.
type Catalog struct {
	store  Store
	cache  cache.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCatalog constructs a catalog. A nil cache disables caching.
func NewCatalog(store Store, cacheClient cache.Client, ttl time.Duration, logger *slog.Logger) *Catalog {
	return &Catalog{store: store, cache: cacheClient, ttl: ttl, logger: logger}
}

// List returns every course ordered by name.
func (s *Catalog) List(ctx context.Context) ([]Course, error) {
	if s.cache != nil {
		var cached []Course
		err := cache.GetJSON(ctx, s.cache, catalogCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.WarnContext(ctx, "catalog cache read failed", slog.String("error", err.Error()))
		}
	}

	courses, err := s.store.List(ctx)
	if err != nil {
		return nil, storage.Unavailable(err)
	}
	if courses == nil {
		courses = []Course{}
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, catalogCacheKey, courses, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "catalog cache write failed", slog.String("error", err.Error()))
		}
	}
	return courses, nil
}

// Visible returns the courses a permission set grants. Administrators see all.
func (s *Catalog) Visible(ctx context.Context, perms user.PermissionSet) ([]Course, error) {
	courses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if perms.IsAdmin() {
		return courses, nil
	}

	visible := make([]Course, 0, len(perms))
	for _, c := range courses {
		if perms.Has(c.ID) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Get returns one course.
func (s *Catalog) Get(ctx context.Context, id string) (Course, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return Course{}, err
		}
		return Course{}, storage.Unavailable(err)
	}
	return c, nil
}

// Upsert creates or updates a course by id.
func (s *Catalog) Upsert(ctx context.Context, input UpsertInput) (Course, bool, error) {
	id, err := validation.NormalizeCourseID(input.ID)
	if err != nil || id == user.AdminPermission {
		return Course{}, false, ErrInvalidID
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Course{}, false, ErrNameRequired
	}

	stored, created, err := s.store.Upsert(ctx, Course{
		ID:     id,
		Name:   name,
		Topics: strings.TrimSpace(input.Topics),
	})
	if err != nil {
		return Course{}, false, storage.Unavailable(err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "course saved", slog.String("course", id), slog.Bool("created", created))
	return stored, created, nil
}

// Delete removes a course and everything that hangs off it.
func (s *Catalog) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return err
		}
		return storage.Unavailable(err)
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "course deleted", slog.String("course", id))
	return nil
}

func (s *Catalog) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		s.logger.WarnContext(ctx, "catalog cache invalidation failed", slog.String("error", err.Error()))
	}
}
