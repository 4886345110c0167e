// Package livequery keeps in-memory views in step with push-based remote
// queries. A Subscription owns one live query, a Registry owns at most one
// Subscription at a time, and a Cache exposes the latest snapshot of it.
package livequery

import "sync"

// Subscription wraps one live query and its teardown. Dispose runs the
// teardown exactly once; callbacks delivered through it after Dispose are
// discarded.
type Subscription struct {
	key string

	mu       sync.RWMutex
	disposed bool
	teardown func()
}

func newSubscription(key string) *Subscription {
	return &Subscription{key: key}
}

func (s *Subscription) Key() string { return s.key }

// attach records the teardown of the underlying query. If the subscription
// was disposed while the query was being opened the teardown runs at once.
func (s *Subscription) attach(teardown func()) {
	s.mu.Lock()
	if !s.disposed {
		s.teardown = teardown
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.runTeardown(teardown)
}

// Dispose stops the subscription. It is safe to call more than once and from
// any goroutine, but not from inside a Deliver callback of the same
// subscription.
func (s *Subscription) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	teardown := s.teardown
	s.teardown = nil
	s.mu.Unlock()

	s.runTeardown(teardown)
}

func (s *Subscription) Disposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disposed
}

// Deliver runs fn unless the subscription is disposed and reports whether it
// ran. Dispose waits for an in-flight Deliver to finish.
func (s *Subscription) Deliver(fn func()) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.disposed {
		return false
	}
	fn()
	return true
}

func (s *Subscription) runTeardown(teardown func()) {
	if teardown == nil {
		return
	}
	teardown()
}
