// Package firestore adapts Cloud Firestore to docstore.Store. Live queries run
// on snapshot iterators, one goroutine each.
package firestore

import (
	"context"
	"strings"
	"sync"

	gfs "cloud.google.com/go/firestore"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-roster/internal/platform/docstore"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client    *gfs.Client
	logger    *logging.Logger
	listeners conc.WaitGroup

	mu      sync.Mutex
	cancels map[int]context.CancelFunc
	nextID  int
}

// Open connects to the project's default database.
func Open(ctx context.Context, projectID string, logger *logging.Logger, opts ...option.ClientOption) (*Store, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, errors.New("firestore project id is required")
	}
	client, err := gfs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create firestore client")
	}
	return New(client, logger), nil
}

func New(client *gfs.Client, logger *logging.Logger) *Store {
	return &Store{
		client:  client,
		logger:  logging.OrDefault(logger).Named("docstore.firestore"),
		cancels: make(map[int]context.CancelFunc),
	}
}

func (s *Store) SubscribeCollection(ctx context.Context, q docstore.Query, onSnapshot docstore.SnapshotFunc, onError docstore.ErrorFunc) (docstore.Unsubscribe, error) {
	if strings.TrimSpace(q.Collection) == "" {
		return nil, errors.New("query collection is required")
	}
	query := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, string(f.Op), f.Value)
	}
	if q.OrderBy != "" {
		query = query.OrderBy(q.OrderBy, gfs.Asc)
	}

	return s.listen(ctx, q.Key(), onError, func(ctx context.Context) error {
		it := query.Snapshots(ctx)
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				return err
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				return errors.Wrap(err, "read query snapshot")
			}
			snap := docstore.Snapshot{ReadAt: qs.ReadTime, Documents: make([]docstore.Document, 0, len(docs))}
			for _, d := range docs {
				snap.Documents = append(snap.Documents, toDocument(d))
			}
			onSnapshot(snap)
		}
	})
}

func (s *Store) SubscribeDocument(ctx context.Context, path string, onSnapshot docstore.SnapshotFunc, onError docstore.ErrorFunc) (docstore.Unsubscribe, error) {
	ref := s.client.Doc(docstore.Join(path))
	if ref == nil {
		return nil, errors.Newf("invalid document path %q", path)
	}

	return s.listen(ctx, ref.Path, onError, func(ctx context.Context) error {
		it := ref.Snapshots(ctx)
		defer it.Stop()
		for {
			ds, err := it.Next()
			if err != nil {
				return err
			}
			snap := docstore.Snapshot{ReadAt: ds.ReadTime}
			if ds.Exists() {
				snap.Documents = []docstore.Document{toDocument(ds)}
			}
			onSnapshot(snap)
		}
	})
}

// listen runs loop until it fails or the subscription is cancelled. A
// cancelled subscription ends silently; any other error is terminal and goes
// to onError.
func (s *Store) listen(ctx context.Context, key string, onError docstore.ErrorFunc, loop func(context.Context) error) (docstore.Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "subscribe")
	}
	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stopOnParent := context.AfterFunc(ctx, cancel)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.cancels[id] = cancel
	s.mu.Unlock()

	s.listeners.Go(func() {
		defer func() {
			stopOnParent()
			s.mu.Lock()
			delete(s.cancels, id)
			s.mu.Unlock()
		}()

		err := loop(listenCtx)
		if err == nil || errors.Is(err, iterator.Done) || listenCtx.Err() != nil || status.Code(errors.UnwrapAll(err)) == codes.Canceled {
			s.logger.Debug("live query stopped", "key", key)
			return
		}
		err = classify(err)
		s.logger.Warn("live query failed", "key", key, "error", err)
		if onError != nil {
			onError(err)
		}
	})

	return func() { cancel() }, nil
}

func (s *Store) GetDocument(ctx context.Context, path string) (docstore.Document, error) {
	ref := s.client.Doc(docstore.Join(path))
	if ref == nil {
		return docstore.Document{}, errors.Newf("invalid document path %q", path)
	}
	ds, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return docstore.Document{}, errors.Wrapf(docstore.ErrNotFound, "get %s", path)
		}
		return docstore.Document{}, errors.Wrapf(classify(err), "get %s", path)
	}
	return toDocument(ds), nil
}

func (s *Store) WriteDocument(ctx context.Context, path string, data map[string]any, opts docstore.WriteOptions) error {
	ref := s.client.Doc(docstore.Join(path))
	if ref == nil {
		return errors.Newf("invalid document path %q", path)
	}
	var setOpts []gfs.SetOption
	if opts.Merge {
		setOpts = append(setOpts, gfs.MergeAll)
	}
	if _, err := ref.Set(ctx, data, setOpts...); err != nil {
		return errors.Wrapf(classify(err), "write %s", path)
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, path string) error {
	ref := s.client.Doc(docstore.Join(path))
	if ref == nil {
		return errors.Newf("invalid document path %q", path)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return errors.Wrapf(classify(err), "delete %s", path)
	}
	return nil
}

// Close cancels every live query, waits for the listener goroutines and
// closes the client.
func (s *Store) Close() error {
	s.mu.Lock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.mu.Unlock()
	s.listeners.Wait()
	return s.client.Close()
}

// ErrPermissionDenied and ErrUnavailable mark the store failures callers may
// want to tell apart from malformed requests.
var (
	ErrPermissionDenied = errors.New("firestore permission denied")
	ErrUnavailable      = errors.New("firestore unavailable")
)

func classify(err error) error {
	switch status.Code(errors.UnwrapAll(err)) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return errors.Mark(err, ErrPermissionDenied)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return errors.Mark(err, ErrUnavailable)
	default:
		return err
	}
}

func toDocument(ds *gfs.DocumentSnapshot) docstore.Document {
	return docstore.Document{
		ID:   ds.Ref.ID,
		Path: relativePath(ds.Ref.Path),
		Data: ds.Data(),
	}
}

// relativePath strips the "projects/<p>/databases/<d>/documents/" prefix.
func relativePath(full string) string {
	const marker = "/documents/"
	if idx := strings.Index(full, marker); idx >= 0 {
		return full[idx+len(marker):]
	}
	return full
}
