package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersister(t *testing.T, breaker resilience.BreakerConfig) *Persister {
	t.Helper()
	p, err := NewPersister(PersisterConfig{Workers: 4, Timeout: time.Second, Breaker: breaker}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(time.Second) })
	return p
}

func TestPersister_SameKeyRunsInOrder(t *testing.T) {
	p := newTestPersister(t, resilience.BreakerConfig{})

	var mu sync.Mutex
	var order []int
	var writes []*PendingWrite
	for i := 0; i < 20; i++ {
		i := i
		writes = append(writes, p.submit(context.Background(), "alignment:m1", func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}, nil))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, w := range writes {
		require.NoError(t, w.Wait(ctx))
	}

	expected := make([]int, 20)
	for i := range expected {
		expected[i] = i
	}
	assert.Equal(t, expected, order)
	assert.Equal(t, 0, p.Pending())
}

func TestPersister_FailureIsSurfaced(t *testing.T) {
	p := newTestPersister(t, resilience.BreakerConfig{})

	var hookKey string
	var hookErr error
	hooked := make(chan struct{})
	cancelHook := p.OnWriteError(func(key string, err error) {
		hookKey, hookErr = key, err
		close(hooked)
	})
	defer cancelHook()

	boom := errors.New("permission denied")
	w := p.submit(context.Background(), "fine:f1", func(context.Context) error { return boom }, nil)

	err := w.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, w.Err(), boom)

	<-hooked
	assert.Equal(t, "fine:f1", hookKey)
	assert.ErrorIs(t, hookErr, boom)
}

func TestPersister_OpenCircuitRejectsWrites(t *testing.T) {
	p := newTestPersister(t, resilience.BreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Hour,
		HalfOpenMaxReq:   1,
	})

	down := errors.New("unavailable")
	require.Error(t, p.submit(context.Background(), "a", func(context.Context) error { return down }, nil).Wait(context.Background()))

	called := false
	err := p.submit(context.Background(), "b", func(context.Context) error {
		called = true
		return nil
	}, nil).Wait(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDependencyUnavailable))
	assert.False(t, called)
}

func TestPersister_WriteOutlivesCallerContext(t *testing.T) {
	p := newTestPersister(t, resilience.BreakerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	w := p.submit(ctx, "k", func(wctx context.Context) error {
		<-release
		return wctx.Err()
	}, nil)
	cancel()
	close(release)

	assert.NoError(t, w.Wait(context.Background()))
}

func TestPendingWrite_NilIsSettled(t *testing.T) {
	var w *PendingWrite
	assert.NoError(t, w.Wait(context.Background()))
	assert.NoError(t, w.Err())
	<-w.Done()
}
