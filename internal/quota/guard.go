// Package quota implements the rolling call budget for the premium
// enrichment provider. One Guard is shared by every request in the process:
// the budget is a global soft limit, not a per-request one.
package quota

import (
	"sync"
	"time"
)

// Guard tracks a fixed allowance of premium calls per rolling window. The
// window restarts lazily: the first check after the window elapses refills
// the allowance.
type Guard struct {
	mu          sync.Mutex
	allowance   int
	window      time.Duration
	remaining   int
	windowStart time.Time
	credential  string
	now         func() time.Time
}

// Option configures optional Guard behaviour.
type Option func(*Guard)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGuard builds a guard with the given allowance per window. The credential
// gates the guard entirely: without it, TryConsume is always false.
func NewGuard(allowance int, window time.Duration, credential string, opts ...Option) *Guard {
	g := &Guard{
		allowance:  allowance,
		window:     window,
		remaining:  allowance,
		credential: credential,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.windowStart = g.now()
	return g
}

// TryConsume burns one unit of the allowance and reports whether it may be
// spent. Check and decrement share one critical section so concurrent callers
// can never both claim the last unit. It refills the allowance when the
// window has elapsed.
func (g *Guard) TryConsume() bool {
	if g.credential == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.maybeReset()
	if g.remaining <= 0 {
		return false
	}
	g.remaining--
	return true
}

// Remaining exposes the current allowance, for health reporting.
func (g *Guard) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.maybeReset()
	return g.remaining
}

func (g *Guard) maybeReset() {
	if g.now().Sub(g.windowStart) > g.window {
		g.remaining = g.allowance
		g.windowStart = g.now()
	}
}
