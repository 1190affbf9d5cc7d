package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/storage"
	"github.com/mo-amir99/course-server-go/pkg/metrics"
)

const unknownIP = "unknown"

// Policy holds the login limits. Zero fields take the defaults.
type Policy struct {
	MaxFailedAttempts int
	FailureWindow     time.Duration
	MaxSessions       int
	SessionIdle       time.Duration
}

// DefaultPolicy returns 5 failures per 15 minutes and 2 sessions idle for at most 30 minutes.
func DefaultPolicy() Policy {
	return Policy{
		MaxFailedAttempts: 5,
		FailureWindow:     15 * time.Minute,
		MaxSessions:       2,
		SessionIdle:       30 * time.Minute,
	}
}

func (p Policy) withDefaults() Policy {
	defaults := DefaultPolicy()
	if p.MaxFailedAttempts <= 0 {
		p.MaxFailedAttempts = defaults.MaxFailedAttempts
	}
	if p.FailureWindow <= 0 {
		p.FailureWindow = defaults.FailureWindow
	}
	if p.MaxSessions <= 0 {
		p.MaxSessions = defaults.MaxSessions
	}
	if p.SessionIdle <= 0 {
		p.SessionIdle = defaults.SessionIdle
	}
	return p
}

// Credentials is one login request.
type Credentials struct {
	Email    string
	Password string
	IP       string
}

// Principal is the authenticated identity carried through a request.
type Principal struct {
	SessionID   uuid.UUID `json:"sessionId"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	Permissions []string  `json:"permissions"`
}

// PermissionSet returns the principal's permissions as a set.
func (p Principal) PermissionSet() user.PermissionSet {
	return user.NewPermissionSet(p.Permissions)
}

// IsAdmin reports whether the principal holds the admin sentinel.
func (p Principal) IsAdmin() bool {
	return p.PermissionSet().IsAdmin()
}

func principalFor(sessionID uuid.UUID, u user.User) Principal {
	return Principal{
		SessionID:   sessionID,
		Email:       u.Email,
		FullName:    u.FullName,
		Permissions: u.PermissionSet().Slice(),
	}
}

// Gate authenticates learners and keeps their sessions.
type Gate struct {
	store  Store
	users  user.Store
	logger *slog.Logger
	policy Policy
	now    func() time.Time
}

// Option customises a Gate.
type Option func(*Gate)

// WithClock replaces the wall clock used for windows and timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate constructs an auth gate.
func NewGate(store Store, users user.Store, logger *slog.Logger, policy Policy, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		users:  users,
		logger: logger,
		policy: policy.withDefaults(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Policy returns the effective policy.
func (g *Gate) Policy() Policy {
	return g.policy
}

// Authenticate checks the credentials against the rate limit, the stored hash and the
// session cap, and opens a new session on success.
func (g *Gate) Authenticate(ctx context.Context, creds Credentials) (Principal, error) {
	email := user.NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return Principal{}, ErrMissingFields
	}
	ip := strings.TrimSpace(creds.IP)
	if ip == "" {
		ip = unknownIP
	}
	now := g.now()

	failures := storage.ReadOr(ctx, g.logger, "auth.failed_attempts", int64(0), func(ctx context.Context) (int64, error) {
		return g.store.FailedAttempts(ctx, email, ip, now.Add(-g.policy.FailureWindow))
	})
	if failures >= int64(g.policy.MaxFailedAttempts) {
		metrics.RecordLogin("rate_limited")
		g.logger.WarnContext(ctx, "login rate limited", slog.String("email", email), slog.String("ip", ip))
		return Principal{}, ErrRateLimited
	}

	account, err := g.users.Get(ctx, email)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		metrics.RecordLogin("unavailable")
		return Principal{}, storage.Unavailable(err)
	}
	if err != nil || !user.ComparePassword(account.Password, creds.Password) {
		g.recordAttempt(ctx, email, ip, false, now)
		metrics.RecordLogin("invalid_credentials")
		return Principal{}, ErrInvalidCredentials
	}

	session := Session{ID: uuid.New(), Email: account.Email, CreatedAt: now, LastActivity: now}
	err = g.store.WithUserLock(ctx, account.Email, func(tx SessionTx) error {
		active := storage.ReadOr(ctx, g.logger, "auth.active_sessions", int64(0), func(ctx context.Context) (int64, error) {
			return tx.ActiveSessions(ctx, account.Email, now.Add(-g.policy.SessionIdle))
		})
		if active >= int64(g.policy.MaxSessions) {
			return ErrTooManySessions
		}
		if err := tx.MarkLogin(ctx, account.Email, now); err != nil {
			return err
		}
		if err := tx.OpenSession(ctx, session); err != nil {
			return err
		}
		return tx.RecordAttempt(ctx, LoginAttempt{
			ID:          uuid.New(),
			Email:       account.Email,
			IPAddress:   ip,
			Success:     true,
			AttemptTime: now,
		})
	})
	if errors.Is(err, ErrTooManySessions) {
		g.recordAttempt(ctx, account.Email, ip, false, now)
		metrics.RecordLogin("too_many_sessions")
		return Principal{}, ErrTooManySessions
	}
	if err != nil {
		metrics.RecordLogin("unavailable")
		return Principal{}, storage.Unavailable(err)
	}

	metrics.RecordLogin("success")
	g.logger.InfoContext(ctx, "login succeeded", slog.String("email", account.Email), slog.String("session", session.ID.String()))
	return principalFor(session.ID, account), nil
}

// Logout removes every session of the email. Logging out twice is not an error.
func (g *Gate) Logout(ctx context.Context, email string) error {
	closed, err := g.store.CloseSessions(ctx, user.NormalizeEmail(email))
	if err != nil {
		return storage.Unavailable(err)
	}
	g.logger.InfoContext(ctx, "logged out", slog.String("email", email), slog.Int64("sessions", closed))
	return nil
}

// Touch refreshes the activity timestamp of the email's active sessions.
// Sessions already past the idle limit are left expired.
func (g *Gate) Touch(ctx context.Context, email string) error {
	now := g.now()
	if err := g.store.TouchSessions(ctx, user.NormalizeEmail(email), now.Add(-g.policy.SessionIdle), now); err != nil {
		return storage.Unavailable(err)
	}
	return nil
}

// Validate resolves a session marker into the current principal.
// Permissions are reloaded so that access edits apply to live sessions.
func (g *Gate) Validate(ctx context.Context, sessionID uuid.UUID, email string) (Principal, error) {
	email = user.NormalizeEmail(email)

	session, err := g.store.GetSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return Principal{}, ErrSessionExpired
	}
	if err != nil {
		return Principal{}, storage.Unavailable(err)
	}
	if session.Email != email || !session.LastActivity.After(g.now().Add(-g.policy.SessionIdle)) {
		return Principal{}, ErrSessionExpired
	}

	account, err := g.users.Get(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return Principal{}, ErrSessionExpired
	}
	if err != nil {
		return Principal{}, storage.Unavailable(err)
	}

	return principalFor(session.ID, account), nil
}

func (g *Gate) recordAttempt(ctx context.Context, email, ip string, success bool, at time.Time) {
	err := g.store.RecordAttempt(ctx, LoginAttempt{
		ID:          uuid.New(),
		Email:       email,
		IPAddress:   ip,
		Success:     success,
		AttemptTime: at,
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "failed to record login attempt",
			slog.String("email", email),
			slog.Bool("success", success),
			slog.String("error", err.Error()),
		)
	}
}
