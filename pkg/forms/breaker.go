package forms

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the form API is considered down.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of a circuit breaker.
type CircuitState int32

const (
	// CircuitClosed lets every request through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects requests until the reset timeout passes.
	CircuitOpen
	// CircuitHalfOpen lets requests through to probe for recovery.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	// MaxErrors is the number of consecutive errors before opening.
	MaxErrors int

	// ResetTimeout is how long the circuit stays open.
	ResetTimeout time.Duration

	// SuccessThreshold is the number of half-open successes needed to close.
	SuccessThreshold int

	// OnStateChange is called when the state changes.
	OnStateChange func(from, to CircuitState)
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxErrors:        5,
		ResetTimeout:     30 * time.Second,
		SuccessThreshold: 1,
	}
}

// Breaker stops calling the form API after repeated server failures so
// visitors get an immediate answer instead of waiting on timeouts.
type Breaker struct {
	config    BreakerConfig
	state     CircuitState
	errors    int
	successes int
	openedAt  time.Time
	now       func() time.Time
	mu        sync.Mutex
}

// NewBreaker creates a closed breaker.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.MaxErrors <= 0 {
		config.MaxErrors = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	return &Breaker{config: config, now: time.Now}
}

// State returns the current state.
func (b *Breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow returns nil if a request may proceed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen {
		if b.now().Sub(b.openedAt) < b.config.ResetTimeout {
			return ErrCircuitOpen
		}
		b.setState(CircuitHalfOpen)
	}
	return nil
}

// RecordSuccess records a successful call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.setState(CircuitClosed)
		}
	default:
		b.errors = 0
	}
}

// RecordError records a failed call.
func (b *Breaker) RecordError() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		b.errors++
		if b.errors >= b.config.MaxErrors {
			b.open()
		}
	case CircuitHalfOpen:
		b.open()
	}
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.setState(CircuitOpen)
}

// setState must be called with mu held.
func (b *Breaker) setState(to CircuitState) {
	from := b.state
	b.state = to
	b.errors = 0
	b.successes = 0
	if b.config.OnStateChange != nil && from != to {
		b.config.OnStateChange(from, to)
	}
}
