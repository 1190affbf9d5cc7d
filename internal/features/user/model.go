package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-server-go/pkg/pagination"
	"github.com/mo-amir99/course-server-go/pkg/types"
)

// User is a learner or administrator identified by email.
type User struct {
	Email       string         `gorm:"type:varchar(255);primaryKey" json:"email"`
	Password    string         `gorm:"type:varchar(255);not null" json:"-"`
	FullName    string         `gorm:"type:varchar(100);not null;default:'';column:full_name" json:"fullName"`
	Permissions pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"permissions"`
	LastLogin   *time.Time     `gorm:"column:last_login" json:"lastLogin,omitempty"`

	types.TimestampModel
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// PermissionSet returns the user's permissions as a set.
func (u User) PermissionSet() PermissionSet {
	return NewPermissionSet(u.Permissions)
}

// IsAdmin reports whether the user holds the administrator sentinel.
func (u User) IsAdmin() bool {
	return u.PermissionSet().IsAdmin()
}

// ListFilters defines learner query filters.
type ListFilters struct {
	Keyword string
}

// CreateInput carries data for creating a new user.
type CreateInput struct {
	Email       string
	Password    string
	FullName    string
	Permissions []string
}

// Store is the persistence contract for users.
type Store interface {
	Get(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) (User, error)
	ListLearners(ctx context.Context, filters ListFilters, params pagination.Params) ([]User, int64, error)
	SetPermissions(ctx context.Context, email string, permissions []string) (User, error)
}

// NormalizeEmail lower-cases and trims an email so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, email string) (User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

func (s *gormStore) Create(ctx context.Context, u User) (User, error) {
	if u.Permissions == nil {
		u.Permissions = pq.StringArray{}
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "users_pkey") {
			return u, ErrEmailTaken
		}
		return u, err
	}
	return u, nil
}

func (s *gormStore) ListLearners(ctx context.Context, filters ListFilters, params pagination.Params) ([]User, int64, error) {
	query := s.db.WithContext(ctx).Model(&User{}).Where("NOT (? = ANY(permissions))", AdminPermission)

	if filters.Keyword != "" {
		keyword := "%" + strings.ToLower(filters.Keyword) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	if err := query.Order("email ASC").Offset(params.Skip).Limit(params.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (s *gormStore) SetPermissions(ctx context.Context, email string, permissions []string) (User, error) {
	result := s.db.WithContext(ctx).Model(&User{}).
		Where("email = ?", NormalizeEmail(email)).
		Updates(map[string]interface{}{
			"permissions": pq.StringArray(permissions),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}
	return s.Get(ctx, email)
}
