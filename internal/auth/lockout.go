package auth

import (
	"sync"
	"time"
)

const (
	// LockoutMaxAttempts is the number of failed logins per username that
	// triggers a hard lock for the remainder of the window.
	LockoutMaxAttempts = 5

	// LockoutWindow bounds both the counting window and the lock duration.
	LockoutWindow = 15 * time.Minute
)

type attemptRecord struct {
	count     int
	expiresAt time.Time
}

// LoginLimiter tracks failed login attempts per username. State is
// process-local and ephemeral: it does not survive restarts and is not shared
// across instances. That is acceptable — the lockout is best-effort defense
// in depth, not a hard security boundary.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord

	now func() time.Time
}

// NewLoginLimiter creates an empty limiter.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		attempts: make(map[string]*attemptRecord),
		now:      time.Now,
	}
}

// Check reports whether the username is currently locked out, and if so how
// long until the lock expires.
func (l *LoginLimiter) Check(username string) (locked bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.attempts[username]
	if !ok {
		return false, 0
	}

	now := l.now()
	if now.After(rec.expiresAt) {
		delete(l.attempts, username)
		return false, 0
	}

	if rec.count >= LockoutMaxAttempts {
		return true, rec.expiresAt.Sub(now)
	}
	return false, 0
}

// RecordFailure counts a failed attempt and reports whether the username is
// now locked. The window starts at the first failure; a stale record is
// replaced rather than extended.
func (l *LoginLimiter) RecordFailure(username string) (locked bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.attempts[username]
	if !ok || now.After(rec.expiresAt) {
		l.attempts[username] = &attemptRecord{count: 1, expiresAt: now.Add(LockoutWindow)}
		return false, 0
	}

	rec.count++
	if rec.count >= LockoutMaxAttempts {
		return true, rec.expiresAt.Sub(now)
	}
	return false, 0
}

// Clear removes the record for a username. Called on successful login.
func (l *LoginLimiter) Clear(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, username)
}
