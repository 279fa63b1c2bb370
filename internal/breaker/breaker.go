// Package breaker implements the three-state circuit breaker that guards a
// wrapped factory: CLOSED while failures stay under the threshold, OPEN
// while calls are refused, HALF_OPEN while probing for recovery. State is
// checked lazily on each attempt; there is no background timer.
package breaker

import (
	"sync"
	"time"
)

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// StateChange fires synchronously on every transition.
type StateChange func(name string, from, to State)

type Config struct {
	// FailureThreshold is the number of consecutive failures in CLOSED
	// that trips the circuit.
	FailureThreshold int

	// SuccessThreshold is the number of consecutive successes in
	// HALF_OPEN that closes the circuit again.
	SuccessThreshold int

	// ResetTimeout is how long an OPEN circuit refuses calls before the
	// next attempt is allowed through as a HALF_OPEN probe.
	ResetTimeout time.Duration

	OnStateChange StateChange
}

func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		ResetTimeout:     30 * time.Second,
	}
}

type Breaker struct {
	name string
	cfg  Config

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	lastErr   error
	changedAt time.Time
}

func New(name string, cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = DefaultConfig().SuccessThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = DefaultConfig().ResetTimeout
	}

	return &Breaker{
		name:      name,
		cfg:       cfg,
		state:     Closed,
		changedAt: time.Now(),
	}
}

func (b *Breaker) Name() string {
	return b.name
}

// Allow reports whether an invocation attempt may proceed. An OPEN circuit
// whose reset timeout has elapsed transitions to HALF_OPEN and lets the
// attempt through as a probe.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if time.Since(b.changedAt) < b.cfg.ResetTimeout {
			return false
		}
		b.transition(HalfOpen)
		return true
	default:
		return true
	}
}

// Success records a successful invocation.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		b.failures = 0
	case HalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.failures = 0
			b.successes = 0
			b.transition(Closed)
		}
	}
}

// Failure records a failed invocation.
func (b *Breaker) Failure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastErr = err

	switch b.state {
	case Closed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(Open)
		}
	case HalfOpen:
		b.successes = 0
		b.failures++
		b.transition(Open)
	}
}

// Reset forces the circuit CLOSED with both counters zeroed, regardless of
// timers.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.successes = 0
	b.lastErr = nil
	if b.state != Closed {
		b.transition(Closed)
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *Breaker) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// transition must be called with b.mu held.
func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.changedAt = time.Now()

	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.name, from, to)
	}
}
