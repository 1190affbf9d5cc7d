package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/pkg/pagination"
)

type userStore struct{ s *Store }

func copyUser(u user.User) user.User {
	u.Permissions = append(pq.StringArray{}, u.Permissions...)
	if u.LastLogin != nil {
		at := *u.LastLogin
		u.LastLogin = &at
	}
	return u
}

func (us *userStore) Get(_ context.Context, email string) (user.User, error) {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	u, ok := us.s.users[user.NormalizeEmail(email)]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (us *userStore) Create(_ context.Context, u user.User) (user.User, error) {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	if _, exists := us.s.users[u.Email]; exists {
		return user.User{}, user.ErrEmailTaken
	}
	now := us.s.now()
	u.CreatedAt = now
	u.UpdatedAt = now
	u = copyUser(u)
	us.s.users[u.Email] = u
	return copyUser(u), nil
}

func (us *userStore) ListLearners(_ context.Context, filters user.ListFilters, params pagination.Params) ([]user.User, int64, error) {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	keyword := strings.ToLower(filters.Keyword)
	matched := make([]user.User, 0, len(us.s.users))
	for _, u := range us.s.users {
		if u.IsAdmin() {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(u.FullName), keyword) && !strings.Contains(u.Email, keyword) {
			continue
		}
		matched = append(matched, copyUser(u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })

	start, end := params.Bounds(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (us *userStore) SetPermissions(_ context.Context, email string, permissions []string) (user.User, error) {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	key := user.NormalizeEmail(email)
	u, ok := us.s.users[key]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.Permissions = append(pq.StringArray{}, permissions...)
	u.UpdatedAt = us.s.now()
	us.s.users[key] = u
	return copyUser(u), nil
}

type authStore struct{ s *Store }

func (as *authStore) FailedAttempts(_ context.Context, email, ip string, since time.Time) (int64, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	var count int64
	for _, a := range as.s.attempts {
		if !a.Success && (a.Email == email || a.IPAddress == ip) && a.AttemptTime.After(since) {
			count++
		}
	}
	return count, nil
}

func (as *authStore) RecordAttempt(_ context.Context, attempt auth.LoginAttempt) error {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	as.s.appendAttempt(attempt)
	return nil
}

func (s *Store) appendAttempt(attempt auth.LoginAttempt) {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	s.attempts = append(s.attempts, attempt)
}

// WithUserLock holds the store mutex for the whole callback. Writes are staged and
// applied only when fn succeeds.
func (as *authStore) WithUserLock(ctx context.Context, email string, fn func(tx auth.SessionTx) error) error {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	if _, ok := as.s.users[email]; !ok {
		return user.ErrUserNotFound
	}

	tx := &sessionTx{s: as.s}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (as *authStore) CloseSessions(_ context.Context, email string) (int64, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	var closed int64
	for id, session := range as.s.sessions {
		if session.Email == email {
			delete(as.s.sessions, id)
			closed++
		}
	}
	return closed, nil
}

func (as *authStore) TouchSessions(_ context.Context, email string, since, at time.Time) error {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	for id, session := range as.s.sessions {
		if session.Email == email && session.LastActivity.After(since) {
			session.LastActivity = at
			as.s.sessions[id] = session
		}
	}
	return nil
}

func (as *authStore) GetSession(_ context.Context, id uuid.UUID) (auth.Session, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	session, ok := as.s.sessions[id]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return session, nil
}

func (as *authStore) Prune(_ context.Context, idleBefore, attemptsBefore time.Time) (int64, int64, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	var sessions int64
	for id, session := range as.s.sessions {
		if !session.LastActivity.After(idleBefore) {
			delete(as.s.sessions, id)
			sessions++
		}
	}

	kept := as.s.attempts[:0]
	for _, a := range as.s.attempts {
		if a.AttemptTime.After(attemptsBefore) {
			kept = append(kept, a)
		}
	}
	attempts := int64(len(as.s.attempts) - len(kept))
	as.s.attempts = kept
	return sessions, attempts, nil
}

// sessionTx runs under the mutex held by WithUserLock.
type sessionTx struct {
	s        *Store
	loginAt  map[string]time.Time
	sessions []auth.Session
	attempts []auth.LoginAttempt
}

func (t *sessionTx) ActiveSessions(_ context.Context, email string, since time.Time) (int64, error) {
	var count int64
	for _, session := range t.s.sessions {
		if session.Email == email && session.LastActivity.After(since) {
			count++
		}
	}
	for _, session := range t.sessions {
		if session.Email == email && session.LastActivity.After(since) {
			count++
		}
	}
	return count, nil
}

func (t *sessionTx) MarkLogin(_ context.Context, email string, at time.Time) error {
	if t.loginAt == nil {
		t.loginAt = make(map[string]time.Time)
	}
	t.loginAt[email] = at
	return nil
}

func (t *sessionTx) OpenSession(_ context.Context, session auth.Session) error {
	t.sessions = append(t.sessions, session)
	return nil
}

func (t *sessionTx) RecordAttempt(_ context.Context, attempt auth.LoginAttempt) error {
	t.attempts = append(t.attempts, attempt)
	return nil
}

func (t *sessionTx) commit() {
	for email, at := range t.loginAt {
		if u, ok := t.s.users[email]; ok {
			loginAt := at
			u.LastLogin = &loginAt
			t.s.users[email] = u
		}
	}
	for _, session := range t.sessions {
		t.s.sessions[session.ID] = session
	}
	for _, attempt := range t.attempts {
		t.s.appendAttempt(attempt)
	}
}
