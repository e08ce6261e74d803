package resilience

import (
	"errors"
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

// Breaker counts consecutive failures and rejects calls once MaxFailures is
// reached. After OpenTimeout a limited number of trial calls decide whether
// it closes again.
type Breaker struct {
	cfg      BreakerConfig
	now      func() time.Time
	onChange func(from, to State)

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	trials    int
	openedAt  time.Time
}

// NewBreaker creates a closed breaker. onChange may be nil.
func NewBreaker(cfg BreakerConfig, onChange func(from, to State)) *Breaker {
	return &Breaker{cfg: cfg, now: time.Now, onChange: onChange}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Allow reports whether a call may proceed. Callers that get true must
// report the outcome with Done.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.current() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if b.trials < b.cfg.HalfOpenMaxCalls {
			b.trials++
			return true
		}
	}
	return false
}

// Done records the outcome of an allowed call.
func (b *Breaker) Done(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state := b.current()
	if failed {
		b.failures++
		if state == StateHalfOpen || b.failures >= b.cfg.MaxFailures {
			b.openedAt = b.now()
			b.to(StateOpen)
		}
		return
	}
	switch state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxCalls {
			b.to(StateClosed)
		}
	}
}

// Release ends an allowed call that produced no verdict on the store, such
// as one abandoned by its caller. It frees a half-open trial slot without
// counting a success or a failure.
func (b *Breaker) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current() == StateHalfOpen && b.trials > 0 {
		b.trials--
	}
}

// current must be called with mu held.
func (b *Breaker) current() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.to(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) to(s State) {
	if b.state == s {
		return
	}
	from := b.state
	b.state = s
	b.trials, b.successes = 0, 0
	if s == StateClosed {
		b.failures = 0
	}
	if b.onChange != nil {
		b.onChange(from, s)
	}
}
