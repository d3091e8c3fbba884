package circuit

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit open")

type State int

const (
	Closed   State = iota // calls pass through
	Open                  // calls are rejected until the cool-down passes
	HalfOpen              // a limited number of trial calls pass through
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

type Settings struct {
	Threshold   int           // consecutive failures that open the circuit
	OpenTimeout time.Duration // how long Open lasts before trials are allowed
	MaxHalfOpen int           // trial calls allowed while HalfOpen
}

// Counts is a snapshot of outcomes, total and since the last state change.
type Counts struct {
	TotalSuccess uint64
	TotalFailure uint64
	EpochSuccess uint64
	EpochFailure uint64
	LastSuccess  time.Time
	LastFailure  time.Time
}

// Breaker is a circuit breaker driven by explicit Success/Failure reports.
// A caller asks Allow before the guarded call and reports the outcome after.
type Breaker struct {
	mu       sync.Mutex
	settings Settings
	now      func() time.Time
	onChange func(from, to State)

	state      State
	errs       int
	trial      int
	lastChange time.Time
	counts     Counts
}

type Option func(*Breaker)

func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

// OnStateChange registers a hook called with the lock held; it must not call
// back into the breaker.
func OnStateChange(fn func(from, to State)) Option {
	return func(b *Breaker) { b.onChange = fn }
}

func New(s Settings, opts ...Option) *Breaker {
	if s.Threshold < 1 {
		s.Threshold = 1
	}
	if s.MaxHalfOpen < 1 {
		s.MaxHalfOpen = 1
	}
	b := &Breaker{settings: s, now: time.Now}
	for _, o := range opts {
		o(b)
	}
	b.lastChange = b.now()
	return b
}

// Allow returns ErrOpen when the call must not be attempted.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	switch b.state {
	case Open:
		if now.Sub(b.lastChange) < b.settings.OpenTimeout {
			return ErrOpen
		}
		b.transitionTo(now, HalfOpen)
		b.trial++
		return nil
	case HalfOpen:
		if b.trial >= b.settings.MaxHalfOpen {
			// Trials that never reported back free their slots after a cool-down.
			if now.Sub(b.lastChange) < b.settings.OpenTimeout {
				return ErrOpen
			}
			b.trial = 0
			b.lastChange = now
		}
		b.trial++
		return nil
	default:
		return nil
	}
}

func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.counts.TotalSuccess++
	b.counts.EpochSuccess++
	b.counts.LastSuccess = now

	switch b.state {
	case HalfOpen:
		b.transitionTo(now, Closed)
	case Closed:
		b.errs = 0
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.counts.TotalFailure++
	b.counts.EpochFailure++
	b.counts.LastFailure = now

	switch b.state {
	case HalfOpen:
		b.transitionTo(now, Open)
	case Closed:
		b.errs++
		if b.errs >= b.settings.Threshold {
			b.transitionTo(now, Open)
		}
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

func (b *Breaker) transitionTo(now time.Time, next State) {
	prev := b.state
	b.state = next
	b.lastChange = now
	b.counts.EpochFailure = 0
	b.counts.EpochSuccess = 0
	b.trial = 0
	if next == Closed {
		b.errs = 0
	}
	if b.onChange != nil && prev != next {
		b.onChange(prev, next)
	}
}
