package gateway

import (
	"sync"
	"time"
)

// RateLimiter enforces a ceiling on calls within a rolling window. The
// read-check-append sequence is serialized under one mutex so concurrent
// callers cannot race past the ceiling.
//
// A slot is consumed at call initiation, not on success: a burst of failing
// calls still counts against the ceiling.
type RateLimiter struct {
	mu      sync.Mutex
	ceiling int
	window  time.Duration
	stamps  []time.Time

	// now is replaceable for tests.
	now func() time.Time
}

// NewRateLimiter creates a limiter allowing ceiling calls per rolling
// minute. A ceiling of 0 or less disables the limiter (every call allowed).
func NewRateLimiter(ceiling int) *RateLimiter {
	return &RateLimiter{
		ceiling: ceiling,
		window:  time.Minute,
		now:     time.Now,
	}
}

// TryAcquire records a call attempt and reports whether it is within the
// ceiling. On success the timestamp is recorded immediately.
func (l *RateLimiter) TryAcquire() bool {
	if l.ceiling <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	kept := l.stamps[:0]
	for _, t := range l.stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.stamps = kept

	if len(l.stamps) >= l.ceiling {
		return false
	}
	l.stamps = append(l.stamps, l.now())
	return true
}

// InWindow returns how many call attempts are currently inside the rolling
// window.
func (l *RateLimiter) InWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	n := 0
	for _, t := range l.stamps {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}
