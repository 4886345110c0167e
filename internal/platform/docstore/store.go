// Package docstore describes the remote multi-writer document store the roster
// core consumes. Implementations live under internal/infrastructure/docstore.
package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by GetDocument when the path holds no document.
var ErrNotFound = errors.New("document not found")

// Document is one stored record. Data holds loosely typed fields exactly as the
// store delivered them; typed decoding happens in internal/platform/document.
type Document struct {
	ID   string
	Path string
	Data map[string]any
}

// Snapshot is the full result set of a live query at one point in time.
// A document subscription yields zero (missing) or one document.
type Snapshot struct {
	Documents []Document
	ReadAt    time.Time
}

type Op string

const OpEqual Op = "=="

type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query selects documents of one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
}

// Where returns a copy of q with an equality filter appended.
func (q Query) Where(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: OpEqual, Value: value})
	return q
}

// Key is a stable identity for the query, used to detect reconfiguration.
func (q Query) Key() string {
	parts := make([]string, 0, len(q.Filters))
	for _, f := range q.Filters {
		parts = append(parts, f.Field+string(f.Op)+valueKey(f.Value))
	}
	sort.Strings(parts)
	return q.Collection + "?" + strings.Join(parts, "&") + "#" + q.OrderBy
}

type WriteOptions struct {
	Merge bool
}

// SnapshotFunc receives each new result set, in delivery order.
type SnapshotFunc func(Snapshot)

// ErrorFunc receives a terminal subscription failure. No snapshots follow it.
type ErrorFunc func(error)

// Unsubscribe tears a live query down. Implementations tolerate repeated calls.
type Unsubscribe func()

// Store is the remote document store collaborator.
type Store interface {
	SubscribeCollection(ctx context.Context, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error)
	SubscribeDocument(ctx context.Context, path string, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error)
	GetDocument(ctx context.Context, path string) (Document, error)
	WriteDocument(ctx context.Context, path string, data map[string]any, opts WriteOptions) error
	DeleteDocument(ctx context.Context, path string) error
}

// Join builds a slash separated document path.
func Join(segments ...string) string {
	cleaned := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(strings.TrimSpace(s), "/")
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, "/")
}

// Split returns the collection path and document id of a document path.
func Split(path string) (collection, id string) {
	path = strings.Trim(path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

func valueKey(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "<nil>"
	default:
		return fmt.Sprint(t)
	}
}
