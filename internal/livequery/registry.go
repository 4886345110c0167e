package livequery

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// OpenFunc starts the live query behind sub. Callbacks it installs must go
// through sub.Deliver so they stop once sub is disposed.
type OpenFunc func(ctx context.Context, sub *Subscription) (teardown func(), err error)

// Registry owns a single live subscription. Replace tears the previous one
// down before opening the next, so two live subscriptions never feed the same
// owner. Replace calls are serialized.
type Registry struct {
	mu      sync.Mutex
	current *Subscription
}

// Replace opens key unless it is already the live key; opened reports whether
// a new subscription was started. On failure the registry is left empty.
func (r *Registry) Replace(ctx context.Context, key string, open OpenFunc) (sub *Subscription, opened bool, err error) {
	if open == nil {
		return nil, false, errors.New("open func is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.key == key && !r.current.Disposed() {
		return r.current, false, nil
	}

	previous := r.current
	r.current = nil
	if previous != nil {
		previous.Dispose()
	}

	next := newSubscription(key)
	teardown, err := open(ctx, next)
	if err != nil {
		next.Dispose()
		return nil, true, errors.Wrapf(err, "open live query %q", key)
	}
	next.attach(teardown)
	r.current = next
	return next, true, nil
}

// IsCurrent reports whether sub is the registry's live subscription.
func (r *Registry) IsCurrent(sub *Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sub != nil && r.current == sub
}

func (r *Registry) Current() *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Close disposes the live subscription, if any. Repeated calls are no-ops.
func (r *Registry) Close() {
	r.mu.Lock()
	current := r.current
	r.current = nil
	r.mu.Unlock()

	if current != nil {
		current.Dispose()
	}
}
