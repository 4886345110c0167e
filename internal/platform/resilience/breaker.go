package resilience

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

// Breaker guards a remote dependency: after FailureThreshold consecutive
// failures calls are rejected until OpenTimeout elapses, then up to
// HalfOpenMaxReq probes decide whether to close again.
type Breaker struct {
	mu sync.Mutex

	cfg BreakerConfig

	state        BreakerState
	failures     int
	openedAt     time.Time
	probes       int
	probeWins    int
	now          func() time.Time
	onTransition func(from, to BreakerState)
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{
		cfg:   NormalizeBreakerConfig(cfg),
		state: BreakerClosed,
		now:   time.Now,
	}
}

// OnTransition registers a hook fired (under the breaker lock) on every state change.
func (b *Breaker) OnTransition(fn func(from, to BreakerState)) {
	b.mu.Lock()
	b.onTransition = fn
	b.mu.Unlock()
}

// Execute runs fn when the breaker admits the call and records its outcome.
// A disabled breaker always runs fn.
func (b *Breaker) Execute(fn func() error) error {
	if !b.cfg.Enabled {
		return fn()
	}
	if err := b.allow(); err != nil {
		return err
	}
	err := fn()
	if err != nil {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return nil
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return BreakerHalfOpen
	}
	return b.state
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.transition(BreakerHalfOpen)
	}

	if b.state == BreakerHalfOpen {
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.probeWins++
		if b.probeWins >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.transition(BreakerClosed)
		}
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(BreakerOpen)
		}
	case BreakerHalfOpen:
		b.transition(BreakerOpen)
	case BreakerOpen:
		b.openedAt = b.now()
	}
}

func (b *Breaker) transition(to BreakerState) {
	from := b.state
	b.state = to
	b.probes = 0
	b.probeWins = 0
	switch to {
	case BreakerClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case BreakerOpen:
		b.openedAt = b.now()
	}
	if b.onTransition != nil && from != to {
		b.onTransition(from, to)
	}
}
