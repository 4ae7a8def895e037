package auth

import (
	"testing"
	"time"
)

// newTestLimiter returns a limiter with a controllable clock.
func newTestLimiter(start time.Time) (*LoginLimiter, *time.Time) {
	clock := start
	l := NewLoginLimiter()
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestLockoutAfterMaxFailures(t *testing.T) {
	l, _ := newTestLimiter(time.Unix(1_700_000_000, 0))

	for i := 1; i < LockoutMaxAttempts; i++ {
		locked, _ := l.RecordFailure("admin")
		if locked {
			t.Fatalf("locked after %d failures, want lock only at %d", i, LockoutMaxAttempts)
		}
	}

	locked, retryAfter := l.RecordFailure("admin")
	if !locked {
		t.Fatalf("not locked after %d failures", LockoutMaxAttempts)
	}
	if retryAfter <= 0 || retryAfter > LockoutWindow {
		t.Errorf("retryAfter: got %v, want within (0, %v]", retryAfter, LockoutWindow)
	}

	if locked, _ := l.Check("admin"); !locked {
		t.Error("Check should report locked after lockout")
	}
	if locked, _ := l.Check("other"); locked {
		t.Error("other usernames must be unaffected")
	}
}

func TestLockoutClearsOnSuccess(t *testing.T) {
	l, _ := newTestLimiter(time.Unix(1_700_000_000, 0))

	for i := 0; i < LockoutMaxAttempts-1; i++ {
		l.RecordFailure("admin")
	}
	l.Clear("admin")

	// Counter restarted; one more failure must not lock.
	if locked, _ := l.RecordFailure("admin"); locked {
		t.Error("failure count should reset after Clear")
	}
}

func TestLockoutWindowExpiry(t *testing.T) {
	l, clock := newTestLimiter(time.Unix(1_700_000_000, 0))

	for i := 0; i < LockoutMaxAttempts; i++ {
		l.RecordFailure("admin")
	}
	if locked, _ := l.Check("admin"); !locked {
		t.Fatal("expected lock")
	}

	*clock = clock.Add(LockoutWindow + time.Second)

	if locked, _ := l.Check("admin"); locked {
		t.Error("lock should expire with the window")
	}
	if locked, _ := l.RecordFailure("admin"); locked {
		t.Error("first failure of a new window must not lock")
	}
}

func TestStaleRecordRestartsWindow(t *testing.T) {
	l, clock := newTestLimiter(time.Unix(1_700_000_000, 0))

	l.RecordFailure("admin")
	l.RecordFailure("admin")

	*clock = clock.Add(LockoutWindow + time.Minute)

	for i := 1; i < LockoutMaxAttempts; i++ {
		if locked, _ := l.RecordFailure("admin"); locked {
			t.Fatalf("locked after %d failures in fresh window", i)
		}
	}
}
