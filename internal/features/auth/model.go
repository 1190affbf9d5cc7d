package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mo-amir99/course-server-go/internal/features/user"
)

// LoginAttempt is one append-only row of the login audit log.
type LoginAttempt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"type:varchar(255);not null;index:idx_login_attempts_email_time,priority:1" json:"email"`
	IPAddress   string    `gorm:"type:varchar(64);not null;column:ip_address;index:idx_login_attempts_ip_time,priority:1" json:"ipAddress"`
	Success     bool      `gorm:"not null" json:"success"`
	AttemptTime time.Time `gorm:"not null;column:attempt_time;index:idx_login_attempts_email_time,priority:2;index:idx_login_attempts_ip_time,priority:2" json:"attemptTime"`
}

// TableName overrides the default table name.
func (LoginAttempt) TableName() string { return "login_attempts" }

// Session is one login instance. Rows idle longer than the policy window are stale.
type Session struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;index" json:"email"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"createdAt"`
	LastActivity time.Time `gorm:"not null;column:last_activity" json:"lastActivity"`
}

// TableName overrides the default table name.
func (Session) TableName() string { return "active_sessions" }

// Store is the persistence contract of the auth gate.
type Store interface {
	FailedAttempts(ctx context.Context, email, ip string, since time.Time) (int64, error)
	RecordAttempt(ctx context.Context, attempt LoginAttempt) error
	// WithUserLock runs fn in one transaction holding the user's row lock.
	// Any error returned by fn rolls the transaction back.
	WithUserLock(ctx context.Context, email string, fn func(tx SessionTx) error) error
	CloseSessions(ctx context.Context, email string) (int64, error)
	// TouchSessions stamps at on the email's sessions active after since. Idle ones stay idle.
	TouchSessions(ctx context.Context, email string, since, at time.Time) error
	GetSession(ctx context.Context, id uuid.UUID) (Session, error)
	// Prune deletes sessions idle since before idleBefore and attempts logged before attemptsBefore.
	Prune(ctx context.Context, idleBefore, attemptsBefore time.Time) (sessions, attempts int64, err error)
}

// SessionTx is the part of the store usable inside WithUserLock.
type SessionTx interface {
	ActiveSessions(ctx context.Context, email string, since time.Time) (int64, error)
	MarkLogin(ctx context.Context, email string, at time.Time) error
	OpenSession(ctx context.Context, session Session) error
	RecordAttempt(ctx context.Context, attempt LoginAttempt) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by PostgreSQL.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FailedAttempts(ctx context.Context, email, ip string, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&LoginAttempt{}).
		Where("(email = ? OR ip_address = ?) AND success = ? AND attempt_time > ?", email, ip, false, since).
		Count(&count).Error
	return count, err
}

func (s *gormStore) RecordAttempt(ctx context.Context, attempt LoginAttempt) error {
	return recordAttempt(s.db.WithContext(ctx), attempt)
}

func (s *gormStore) WithUserLock(ctx context.Context, email string, fn func(tx SessionTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked user.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("email").
			First(&locked, "email = ?", email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrUserNotFound
			}
			return err
		}
		return fn(&gormTx{db: tx})
	})
}

func (s *gormStore) CloseSessions(ctx context.Context, email string) (int64, error) {
	result := s.db.WithContext(ctx).Where("email = ?", email).Delete(&Session{})
	return result.RowsAffected, result.Error
}

func (s *gormStore) TouchSessions(ctx context.Context, email string, since, at time.Time) error {
	return s.db.WithContext(ctx).Model(&Session{}).
		Where("email = ? AND last_activity > ?", email, since).
		Update("last_activity", at).Error
}

func (s *gormStore) GetSession(ctx context.Context, id uuid.UUID) (Session, error) {
	var session Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session, ErrSessionNotFound
		}
		return session, err
	}
	return session, nil
}

func (s *gormStore) Prune(ctx context.Context, idleBefore, attemptsBefore time.Time) (int64, int64, error) {
	var sessions, attempts int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("last_activity <= ?", idleBefore).Delete(&Session{})
		if result.Error != nil {
			return result.Error
		}
		sessions = result.RowsAffected

		result = tx.Where("attempt_time <= ?", attemptsBefore).Delete(&LoginAttempt{})
		if result.Error != nil {
			return result.Error
		}
		attempts = result.RowsAffected
		return nil
	})
	return sessions, attempts, err
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) ActiveSessions(ctx context.Context, email string, since time.Time) (int64, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&Session{}).
		Where("email = ? AND last_activity > ?", email, since).
		Count(&count).Error
	return count, err
}

func (t *gormTx) MarkLogin(ctx context.Context, email string, at time.Time) error {
	return t.db.WithContext(ctx).Model(&user.User{}).
		Where("email = ?", email).
		Update("last_login", at).Error
}

func (t *gormTx) OpenSession(ctx context.Context, session Session) error {
	return t.db.WithContext(ctx).Create(&session).Error
}

func (t *gormTx) RecordAttempt(ctx context.Context, attempt LoginAttempt) error {
	return recordAttempt(t.db.WithContext(ctx), attempt)
}

func recordAttempt(db *gorm.DB, attempt LoginAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	return db.Create(&attempt).Error
}
