package livequery

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

// Source describes one live query a Cache can follow. Key identifies the
// query; a different key means a reconfiguration.
type Source[T any] struct {
	Key   string
	Watch func(ctx context.Context, onData func(T), onError func(error)) (docstore.Unsubscribe, error)
}

// State is what consumers read. Data is the last good snapshot and must be
// treated as read-only.
type State[T any] struct {
	Key       string
	Data      T
	Loading   bool
	Ready     bool
	Err       error
	Version   uint64
	UpdatedAt time.Time
}

// Cache mirrors one remote query. Every snapshot replaces Data wholesale and
// clears Err; a failure sets Err and leaves the last good Data in place.
type Cache[T any] struct {
	name     string
	logger   *logging.Logger
	registry Registry
	now      func() time.Time

	mu        sync.RWMutex
	state     State[T]
	failedKey string
	listeners map[int]func(State[T])
	nextID    int
}

func NewCache[T any](name string, logger *logging.Logger) *Cache[T] {
	return &Cache[T]{
		name:      name,
		logger:    logging.OrDefault(logger).Named("cache." + name),
		now:       time.Now,
		listeners: make(map[int]func(State[T])),
	}
}

func (c *Cache[T]) Name() string { return c.name }

// Activate follows src. Re-activating the live key is a no-op unless the
// previous subscription ended with an error, in which case it reconnects
// while keeping the stale data visible. A new key starts from an empty,
// loading state. The subscription keeps ctx values but outlives its
// cancellation; only Deactivate or a later key change ends it.
func (c *Cache[T]) Activate(ctx context.Context, src Source[T]) error {
	if src.Watch == nil {
		return errors.Newf("cache %s: source watch is required", c.name)
	}

	c.mu.RLock()
	reconnect := c.failedKey != "" && c.failedKey == src.Key
	c.mu.RUnlock()
	if reconnect {
		c.registry.Close()
	}

	_, opened, err := c.registry.Replace(ctx, src.Key, func(ctx context.Context, sub *Subscription) (func(), error) {
		c.begin(src.Key)
		unsubscribe, err := src.Watch(context.WithoutCancel(ctx),
			func(data T) { c.apply(sub, data) },
			func(err error) { c.fail(sub, err) },
		)
		if err != nil {
			return nil, err
		}
		return func() {
			if unsubscribe != nil {
				unsubscribe()
			}
		}, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "subscribe failed, keeping last snapshot", "key", src.Key, "error", err)
		c.setError(src.Key, err)
		return errors.Wrapf(err, "activate cache %s", c.name)
	}
	if opened {
		c.logger.DebugContext(ctx, "subscription opened", "key", src.Key)
		c.notify(c.State())
	}
	return nil
}

// Deactivate tears the live subscription down. Snapshots arriving afterwards
// are discarded. Safe to call repeatedly.
func (c *Cache[T]) Deactivate() {
	c.registry.Close()

	c.mu.Lock()
	c.state.Loading = false
	c.mu.Unlock()
}

// Active reports whether a live subscription is open.
func (c *Cache[T]) Active() bool {
	sub := c.registry.Current()
	return sub != nil && !sub.Disposed()
}

func (c *Cache[T]) State() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Watch registers fn for every state change and returns its cancel func.
// fn runs on the delivering goroutine and must not block.
func (c *Cache[T]) Watch(fn func(State[T])) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Cache[T]) begin(key string) {
	c.mu.Lock()
	if c.state.Key != key {
		var zero T
		c.state = State[T]{Key: key, Data: zero}
	}
	c.state.Loading = true
	c.failedKey = ""
	c.mu.Unlock()
}

func (c *Cache[T]) apply(sub *Subscription, data T) {
	var st State[T]
	delivered := sub.Deliver(func() {
		c.mu.Lock()
		c.state.Data = data
		c.state.Err = nil
		c.state.Loading = false
		c.state.Ready = true
		c.state.Version++
		c.state.UpdatedAt = c.now()
		st = c.state
		c.mu.Unlock()
	})
	if !delivered {
		c.logger.Debug("discarding snapshot after teardown", "key", sub.Key())
		return
	}
	c.notify(st)
}

func (c *Cache[T]) fail(sub *Subscription, err error) {
	var st State[T]
	delivered := sub.Deliver(func() {
		c.mu.Lock()
		c.state.Err = err
		c.state.Loading = false
		c.failedKey = sub.Key()
		st = c.state
		c.mu.Unlock()
	})
	if !delivered {
		return
	}
	c.logger.Warn("live query failed, serving last snapshot", "key", sub.Key(), "error", err)
	c.notify(st)
}

func (c *Cache[T]) setError(key string, err error) {
	c.mu.Lock()
	if c.state.Key != key {
		var zero T
		c.state = State[T]{Key: key, Data: zero}
	}
	c.state.Err = err
	c.state.Loading = false
	c.failedKey = key
	st := c.state
	c.mu.Unlock()

	c.notify(st)
}

func (c *Cache[T]) notify(st State[T]) {
	c.mu.RLock()
	fns := make([]func(State[T]), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(st)
	}
}
