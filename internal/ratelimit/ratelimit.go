// Package ratelimit implements fixed-window request counting keyed by caller
// identity. Counters live in process memory: under horizontal scaling each
// instance enforces its own limit, which is the accepted trade-off for an
// edge deployment without shared state.
package ratelimit

import (
	"math/rand"
	"sync"
	"time"
)

// Policy names a request budget over a fixed window.
type Policy struct {
	Max    int
	Window time.Duration
}

// Standard policies, applied per route group.
var (
	// Public covers unauthenticated content reads, keyed by ip:path.
	Public = Policy{Max: 60, Window: time.Minute}

	// Admin covers authenticated admin traffic, keyed by user id (IP when
	// no identity is available).
	Admin = Policy{Max: 300, Window: time.Minute}
)

// Result is the outcome of a single counted request.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store is the counter backend. The in-memory implementation below serves a
// single instance; a shared key-value store can replace it for multi-instance
// deployments without touching policy logic.
type Store interface {
	// Increment counts one request against key, starting a new window when
	// none is active. It returns the count within the current window and the
	// window's reset time.
	Increment(key string, window time.Duration) (count int, resetAt time.Time)

	// Peek returns the current count and reset time without incrementing.
	Peek(key string) (count int, resetAt time.Time, ok bool)

	// Reset removes the counter for key.
	Reset(key string)
}

type entry struct {
	count   int
	resetAt time.Time
}

// purgeThreshold forces an unconditional sweep of expired entries once the
// map grows past it; below it, sweeps happen with ~1% probability per
// increment. Staleness only wastes memory, never changes a rate decision.
const purgeThreshold = 10_000

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry

	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(key string, window time.Duration) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.maybePurge(now)

	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = e
		return e.count, e.resetAt
	}

	e.count++
	return e.count, e.resetAt
}

func (s *MemoryStore) Peek(key string) (int, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.resetAt) {
		return 0, time.Time{}, false
	}
	return e.count, e.resetAt, true
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// maybePurge drops expired entries opportunistically. Caller holds the lock.
func (s *MemoryStore) maybePurge(now time.Time) {
	if len(s.entries) <= purgeThreshold && rand.Intn(100) != 0 {
		return
	}
	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
		}
	}
}

// Limiter applies policies against a Store.
type Limiter struct {
	store Store
}

// NewLimiter creates a Limiter over store, defaulting to a fresh MemoryStore
// when store is nil.
func NewLimiter(store Store) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Limiter{store: store}
}

// Check counts one request for key under p. The first request of a window is
// always allowed; within a window the request is allowed while the count is
// at most p.Max, and Remaining never goes below zero.
func (l *Limiter) Check(key string, p Policy) Result {
	count, resetAt := l.store.Increment(key, p.Window)

	remaining := p.Max - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= p.Max,
		Limit:     p.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// Reset clears the counter for key.
func (l *Limiter) Reset(key string) {
	l.store.Reset(key)
}
