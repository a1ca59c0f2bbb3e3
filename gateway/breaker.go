// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"sync"
	"time"
)

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
		return "half_open"
	}
	return "unknown"
}

// Breaker is a circuit breaker counting consecutive failed calls. All state
// is owned by the breaker and guarded by its mutex.
type Breaker struct {
	mu sync.Mutex

	state    State
	failures int
	openedAt time.Time
	trials   int

	generation uint64

	threshold        int
	halfOpenAttempts int
	openTimeout      time.Duration

	now          func() time.Time
	onTransition func(from, to State)
}

// NewBreaker creates a closed breaker. onTransition, when not nil, is called
// with the breaker's lock held and must not call back into the breaker.
func NewBreaker(config BreakerConfig, now func() time.Time, onTransition func(from, to State)) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = DefaultFailureThreshold
	}
	if config.HalfOpenAttempts <= 0 {
		config.HalfOpenAttempts = DefaultHalfOpenAttempts
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = DefaultOpenTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &Breaker{
		threshold:        config.FailureThreshold,
		halfOpenAttempts: config.HalfOpenAttempts,
		openTimeout:      config.OpenTimeout,
		now:              now,
		onTransition:     onTransition,
	}
}

// Ticket stamps an admitted call with the breaker generation it was admitted
// in. Every state transition starts a new generation.
type Ticket struct {
	generation uint64
}

// Acquire is AllowRequest returning the ticket the call's result must be
// released with.
func (b *Breaker) Acquire() (Ticket, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ok := b.allow()
	return Ticket{generation: b.generation}, ok
}

// Release records the outcome of a call admitted by Acquire. Results of calls
// admitted in an earlier generation are ignored, so a slow call from before
// the breaker opened can never decide a half open trial.
func (b *Breaker) Release(t Ticket, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.generation != b.generation {
		return
	}
	b.record(success)
}

// AllowRequest reports whether a call may go out. Once the cool-down has
// elapsed an open breaker turns half open and admits a limited number of trials.
func (b *Breaker) AllowRequest() bool {
	_, ok := b.Acquire()
	return ok
}

// RecordResult feeds an outcome into the breaker's current generation.
func (b *Breaker) RecordResult(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(success)
}

func (b *Breaker) allow() bool {
	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return false
		}
		b.transition(StateHalfOpen)
		b.trials = 0
		fallthrough
	case StateHalfOpen:
		if b.trials >= b.halfOpenAttempts {
			return false
		}
		b.trials++
		return true
	}
	return false
}

func (b *Breaker) record(success bool) {
	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.threshold {
			b.open()
		}
	case StateHalfOpen:
		if success {
			b.failures = 0
			b.trials = 0
			b.transition(StateClosed)
			return
		}
		b.open()
	case StateOpen:
		// late result of a call admitted before the breaker opened
	}
}

// State returns the current state without advancing it.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the consecutive failure count of a closed breaker.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// RetryAfter is the remaining cool-down of an open breaker, zero otherwise.
func (b *Breaker) RetryAfter() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateOpen {
		return 0
	}
	remaining := b.openTimeout - b.now().Sub(b.openedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.failures = 0
	b.trials = 0
	b.transition(StateOpen)
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.generation++
	if b.onTransition != nil {
		b.onTransition(from, to)
	}
}
