package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpenState is returned when the circuit breaker rejects a request
var ErrOpenState = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	// StateClosed allows all requests through
	StateClosed State = iota

	// StateOpen rejects all requests until the cooldown elapses
	StateOpen

	// StateHalfOpen allows one probe request to test recovery
	StateHalfOpen
)

// String returns the string representation of the state
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

// Config holds circuit breaker configuration
type Config struct {
	// MaxFailures is the number of consecutive failures before opening
	MaxFailures uint

	// Cooldown is how long to stay open before allowing a probe
	Cooldown time.Duration
}

// DefaultConfig returns sensible defaults for the catalog boundary
func DefaultConfig() Config {
	return Config{
		MaxFailures: 5,
		Cooldown:    60 * time.Second,
	}
}

// CircuitBreaker guards a remote dependency: consecutive failures trip
// it open, a cooldown later a single probe decides whether it closes
type CircuitBreaker struct {
	mu          sync.Mutex
	state       State
	failures    uint
	openedAt    time.Time
	probeActive bool
	cfg         Config
}

// New creates a new circuit breaker
func New(cfg Config) *CircuitBreaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultConfig().MaxFailures
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = DefaultConfig().Cooldown
	}
	return &CircuitBreaker{
		state: StateClosed,
		cfg:   cfg,
	}
}

// Execute runs fn through the breaker, returning ErrOpenState without
// calling fn when the circuit rejects the request
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.allow(); err != nil {
		return err
	}

	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if time.Since(cb.openedAt) > cb.cfg.Cooldown {
			cb.state = StateHalfOpen
			cb.probeActive = true
			return nil
		}
		return ErrOpenState

	case StateHalfOpen:
		if cb.probeActive {
			return ErrOpenState
		}
		cb.probeActive = true
		return nil

	default:
		return ErrOpenState
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		cb.probeActive = false
		cb.state = StateClosed
		return
	}

	cb.failures++
	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.cfg.MaxFailures {
			cb.trip()
		}
	case StateHalfOpen:
		cb.trip()
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = StateOpen
	cb.openedAt = time.Now()
	cb.probeActive = false
}

// State returns the current state
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset returns the breaker to the closed state
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.probeActive = false
}
