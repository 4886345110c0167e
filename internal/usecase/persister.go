package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
	"github.com/riskibarqy/club-roster/internal/platform/resilience"
)

// WriteFunc performs one remote write.
type WriteFunc func(ctx context.Context) error

// PendingWrite is the handle of a write handed to the Persister. A nil
// *PendingWrite stands for "nothing was written" and reports success.
type PendingWrite struct {
	key  string
	done chan struct{}
	err  error
}

func newPendingWrite(key string) *PendingWrite {
	return &PendingWrite{key: key, done: make(chan struct{})}
}

func (w *PendingWrite) Key() string {
	if w == nil {
		return ""
	}
	return w.key
}

// Done is closed once the write settled.
func (w *PendingWrite) Done() <-chan struct{} {
	if w == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return w.done
}

// Err is the write outcome. It is nil until Done is closed.
func (w *PendingWrite) Err() error {
	if w == nil {
		return nil
	}
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Wait blocks until the write settles or ctx ends.
func (w *PendingWrite) Wait(ctx context.Context) error {
	if w == nil {
		return nil
	}
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "wait for write %s", w.key)
	}
}

func (w *PendingWrite) settle(err error) {
	w.err = err
	close(w.done)
}

type PersisterConfig struct {
	Workers int
	Timeout time.Duration
	Breaker resilience.BreakerConfig
}

// Persister runs remote writes in the background on a bounded worker pool
// behind a circuit breaker. Writes sharing a key run one at a time in
// submission order; writes on different keys run concurrently.
type Persister struct {
	pool    *ants.Pool
	breaker *resilience.Breaker
	timeout time.Duration
	logger  *logging.Logger

	pending atomic.Int64

	mu       sync.Mutex
	queues   map[string][]*persistJob
	onError  map[int]func(key string, err error)
	nextHook int
}

type persistJob struct {
	ctx   context.Context
	write *PendingWrite
	fn    WriteFunc
	after func(error)
}

func NewPersister(cfg PersisterConfig, logger *logging.Logger) (*Persister, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	logger = logging.OrDefault(logger).Named("persister")

	pool, err := ants.NewPool(cfg.Workers, ants.WithPanicHandler(func(v any) {
		logger.Error("write worker panicked", "panic", v)
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create write pool")
	}

	breaker := resilience.NewBreaker(resilience.NormalizeBreakerConfig(cfg.Breaker))
	breaker.OnTransition(func(from, to resilience.BreakerState) {
		logger.Warn("write circuit changed state", "from", string(from), "to", string(to))
	})

	return &Persister{
		pool:    pool,
		breaker: breaker,
		timeout: cfg.Timeout,
		logger:  logger,
		queues:  make(map[string][]*persistJob),
		onError: make(map[int]func(string, error)),
	}, nil
}

// submit schedules fn under key and returns at once. The write keeps ctx
// values but not its cancellation; it is bounded by the configured timeout.
// after, when set, runs once the write settles and before waiters wake.
func (p *Persister) submit(ctx context.Context, key string, fn WriteFunc, after func(error)) *PendingWrite {
	job := &persistJob{
		ctx:   context.WithoutCancel(ctx),
		write: newPendingWrite(key),
		fn:    fn,
		after: after,
	}
	p.pending.Add(1)

	p.mu.Lock()
	queue, busy := p.queues[key]
	p.queues[key] = append(queue, job)
	p.mu.Unlock()

	if !busy {
		go p.dispatch(job)
	}
	return job.write
}

// Pending counts writes that have not settled yet.
func (p *Persister) Pending() int {
	return int(p.pending.Load())
}

// OnWriteError registers fn for every failed write and returns its cancel func.
func (p *Persister) OnWriteError(fn func(key string, err error)) func() {
	p.mu.Lock()
	id := p.nextHook
	p.nextHook++
	p.onError[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.onError, id)
			p.mu.Unlock()
		})
	}
}

// Close waits up to timeout for queued writes and releases the pool.
func (p *Persister) Close(timeout time.Duration) error {
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		return errors.Wrap(err, "release write pool")
	}
	return nil
}

func (p *Persister) dispatch(job *persistJob) {
	err := p.pool.Submit(func() { p.run(job) })
	if err != nil {
		p.complete(job, errors.Mark(errors.Wrap(err, "submit write"), ErrDependencyUnavailable))
	}
}

func (p *Persister) run(job *persistJob) {
	ctx, cancel := context.WithTimeout(job.ctx, p.timeout)
	defer cancel()

	err := p.breaker.Execute(func() error { return job.fn(ctx) })
	if errors.Is(err, resilience.ErrCircuitOpen) {
		err = errors.Mark(err, ErrDependencyUnavailable)
	}
	p.complete(job, err)
}

func (p *Persister) complete(job *persistJob, err error) {
	key := job.write.key
	if err != nil {
		p.logger.WarnContext(job.ctx, "write failed", "key", key, "error", err)
	}

	p.mu.Lock()
	queue := p.queues[key]
	if len(queue) > 0 {
		queue = queue[1:]
	}
	var next *persistJob
	if len(queue) == 0 {
		delete(p.queues, key)
	} else {
		p.queues[key] = queue
		next = queue[0]
	}
	var hooks []func(string, error)
	if err != nil {
		for _, fn := range p.onError {
			hooks = append(hooks, fn)
		}
	}
	p.mu.Unlock()

	p.pending.Add(-1)
	if job.after != nil {
		job.after(err)
	}
	job.write.settle(err)
	for _, fn := range hooks {
		fn(key, err)
	}

	if next != nil {
		go p.dispatch(next)
	}
}
