package vector

import "sync"

// Breaker is a per-backend circuit breaker. It starts available, counts
// consecutive failures, and trips permanently once the threshold is reached:
// a known-bad backend is skipped for the rest of the process lifetime rather
// than paying repeated timeout latency. There is no automatic recovery; a
// restart is the recovery path.
type Breaker struct {
	mu        sync.Mutex
	threshold int
	failures  int
	tripped   bool
}

// NewBreaker creates a breaker that trips after threshold consecutive
// failures. A threshold below 1 is coerced to 1.
func NewBreaker(threshold int) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	return &Breaker{threshold: threshold}
}

// Available reports whether the backend may be called.
func (b *Breaker) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.tripped
}

// Success resets the consecutive-failure count.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tripped {
		return
	}
	b.failures = 0
}

// Failure records one failure and trips the breaker at the threshold.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tripped {
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.tripped = true
	}
}
