// Package memory is an in-process document store with live queries. It backs
// local runs and tests, and can inject write and subscription failures.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

var ErrClosed = errors.New("memory store is closed")

type Store struct {
	mu        sync.Mutex
	docs      map[string]map[string]any
	subs      map[int]*subscription
	nextSubID int
	seq       uint64
	closed    bool

	writeErr     error
	subscribeErr error

	workers conc.WaitGroup
	now     func() time.Time
	logger  *logging.Logger
}

func NewStore(logger *logging.Logger) *Store {
	return &Store{
		docs:   make(map[string]map[string]any),
		subs:   make(map[int]*subscription),
		now:    time.Now,
		logger: logging.OrDefault(logger).Named("docstore.memory"),
	}
}

// subscription delivers on its own goroutine, in order. A snapshot that is
// still pending when a newer one arrives is replaced by it.
type subscription struct {
	id         int
	query      *docstore.Query
	path       string
	onSnapshot docstore.SnapshotFunc
	onError    docstore.ErrorFunc

	mu         sync.Mutex
	pending    *docstore.Snapshot
	pendingSeq uint64
	pendingErr error
	wake       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func (s *Store) SubscribeCollection(ctx context.Context, q docstore.Query, onSnapshot docstore.SnapshotFunc, onError docstore.ErrorFunc) (docstore.Unsubscribe, error) {
	if strings.TrimSpace(q.Collection) == "" {
		return nil, errors.New("query collection is required")
	}
	query := q
	return s.subscribe(ctx, &subscription{query: &query, onSnapshot: onSnapshot, onError: onError})
}

func (s *Store) SubscribeDocument(ctx context.Context, path string, onSnapshot docstore.SnapshotFunc, onError docstore.ErrorFunc) (docstore.Unsubscribe, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("document path is required")
	}
	return s.subscribe(ctx, &subscription{path: docstore.Join(path), onSnapshot: onSnapshot, onError: onError})
}

func (s *Store) subscribe(ctx context.Context, sub *subscription) (docstore.Unsubscribe, error) {
	if sub.onSnapshot == nil {
		return nil, errors.New("snapshot callback is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "subscribe")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.subscribeErr != nil {
		err := s.subscribeErr
		s.mu.Unlock()
		return nil, err
	}
	s.nextSubID++
	sub.id = s.nextSubID
	sub.wake = make(chan struct{}, 1)
	sub.done = make(chan struct{})
	s.subs[sub.id] = sub
	initial, seq := s.snapshotLocked(sub), s.seq
	s.mu.Unlock()

	s.workers.Go(func() { s.run(sub) })
	sub.push(initial, seq)

	go func() {
		select {
		case <-ctx.Done():
			s.unsubscribe(sub)
		case <-sub.done:
		}
	}()

	return func() { s.unsubscribe(sub) }, nil
}

func (s *Store) unsubscribe(sub *subscription) {
	s.mu.Lock()
	delete(s.subs, sub.id)
	s.mu.Unlock()
	sub.stop()
}

func (s *Store) GetDocument(ctx context.Context, path string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, errors.Wrap(err, "get document")
	}
	path = docstore.Join(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[path]
	if !ok {
		return docstore.Document{}, errors.Wrapf(docstore.ErrNotFound, "get %s", path)
	}
	_, id := docstore.Split(path)
	return docstore.Document{ID: id, Path: path, Data: deepCopyMap(data)}, nil
}

func (s *Store) WriteDocument(ctx context.Context, path string, data map[string]any, opts docstore.WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "write document")
	}
	path = docstore.Join(path)
	if collection, id := docstore.Split(path); collection == "" || id == "" {
		return errors.Newf("invalid document path %q", path)
	}

	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	next := deepCopyMap(data)
	if existing, ok := s.docs[path]; ok && opts.Merge {
		next = mergeMaps(deepCopyMap(existing), next)
	}
	s.docs[path] = next
	s.seq++
	fanout := s.fanoutLocked(path)
	s.mu.Unlock()

	fanout()
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "delete document")
	}
	path = docstore.Join(path)

	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if _, ok := s.docs[path]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.docs, path)
	s.seq++
	fanout := s.fanoutLocked(path)
	s.mu.Unlock()

	fanout()
	return nil
}

// FailWrites makes every later write and delete return err. nil restores writes.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

// FailSubscriptions makes later subscribe calls return err. nil restores them.
func (s *Store) FailSubscriptions(err error) {
	s.mu.Lock()
	s.subscribeErr = err
	s.mu.Unlock()
}

// Break ends every live query on collection (or on documents inside it) with
// err, as a dropped connection would.
func (s *Store) Break(collection string, err error) {
	collection = docstore.Join(collection)

	s.mu.Lock()
	var hit []*subscription
	for id, sub := range s.subs {
		if sub.collection() == collection {
			hit = append(hit, sub)
			delete(s.subs, id)
		}
	}
	s.mu.Unlock()

	for _, sub := range hit {
		sub.fail(err)
	}
}

// LiveQueries reports the number of open subscriptions.
func (s *Store) LiveQueries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close stops every subscription and waits for delivery goroutines. It must
// not be called from a snapshot callback.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	subs := make([]*subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subs = make(map[int]*subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	s.workers.Wait()
}

func (s *Store) writableLocked() error {
	if s.closed {
		return ErrClosed
	}
	return s.writeErr
}

func (s *Store) fanoutLocked(path string) func() {
	type delivery struct {
		sub  *subscription
		snap docstore.Snapshot
	}
	var out []delivery
	for _, sub := range s.subs {
		if sub.matchesPath(path) {
			out = append(out, delivery{sub: sub, snap: s.snapshotLocked(sub)})
		}
	}
	seq := s.seq
	return func() {
		for _, d := range out {
			d.sub.push(d.snap, seq)
		}
	}
}

func (s *Store) snapshotLocked(sub *subscription) docstore.Snapshot {
	snap := docstore.Snapshot{ReadAt: s.now()}
	if sub.query == nil {
		if data, ok := s.docs[sub.path]; ok {
			_, id := docstore.Split(sub.path)
			snap.Documents = []docstore.Document{{ID: id, Path: sub.path, Data: deepCopyMap(data)}}
		}
		return snap
	}

	for path, data := range s.docs {
		collection, id := docstore.Split(path)
		if collection != sub.query.Collection || !matches(data, sub.query.Filters) {
			continue
		}
		snap.Documents = append(snap.Documents, docstore.Document{ID: id, Path: path, Data: deepCopyMap(data)})
	}
	orderDocuments(snap.Documents, sub.query.OrderBy)
	return snap
}

func (s *Store) run(sub *subscription) {
	for {
		select {
		case <-sub.done:
			return
		case <-sub.wake:
		}

		sub.mu.Lock()
		snap, failure := sub.pending, sub.pendingErr
		sub.pending, sub.pendingErr = nil, nil
		sub.mu.Unlock()

		if snap != nil {
			sub.onSnapshot(*snap)
		}
		if failure != nil {
			if sub.onError != nil {
				sub.onError(failure)
			} else {
				s.logger.Warn("live query failed without error handler", "error", failure)
			}
			sub.stop()
			return
		}
	}
}

// push queues snap unless a newer write was already queued, so concurrent
// writers cannot reorder what a subscriber sees.
func (sub *subscription) push(snap docstore.Snapshot, seq uint64) {
	sub.mu.Lock()
	if sub.pendingSeq > seq {
		sub.mu.Unlock()
		return
	}
	sub.pending = &snap
	sub.pendingSeq = seq
	sub.mu.Unlock()
	sub.signal()
}

func (sub *subscription) fail(err error) {
	sub.mu.Lock()
	sub.pendingErr = err
	sub.mu.Unlock()
	sub.signal()
}

func (sub *subscription) signal() {
	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *subscription) stop() {
	sub.stopOnce.Do(func() { close(sub.done) })
}

func (sub *subscription) collection() string {
	if sub.query != nil {
		return sub.query.Collection
	}
	collection, _ := docstore.Split(sub.path)
	return collection
}

func (sub *subscription) matchesPath(path string) bool {
	if sub.query == nil {
		return sub.path == path
	}
	collection, _ := docstore.Split(path)
	return collection == sub.query.Collection
}

func matches(data map[string]any, filters []docstore.Filter) bool {
	for _, f := range filters {
		if f.Op != docstore.OpEqual {
			return false
		}
		if !equalValues(data[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b) && (a == nil) == (b == nil)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

func orderDocuments(docs []docstore.Document, field string) {
	sort.SliceStable(docs, func(i, j int) bool {
		if field != "" {
			a, b := fmt.Sprint(docs[i].Data[field]), fmt.Sprint(docs[j].Data[field])
			if fa, ok := toFloat(docs[i].Data[field]); ok {
				if fb, ok := toFloat(docs[j].Data[field]); ok && fa != fb {
					return fa < fb
				}
			}
			if a != b {
				return a < b
			}
		}
		return docs[i].Path < docs[j].Path
	})
}

func deepCopyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = deepCopyValue(t[i])
		}
		return out
	default:
		return v
	}
}

func mergeMaps(dst, src map[string]any) map[string]any {
	for k, v := range src {
		nested, ok := v.(map[string]any)
		existing, existingOK := dst[k].(map[string]any)
		if ok && existingOK {
			dst[k] = mergeMaps(existing, nested)
			continue
		}
		dst[k] = v
	}
	return dst
}
