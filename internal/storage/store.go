package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dhima/catalog-service/internal/logging"
	"go.uber.org/zap"
)

// Store persists every collection as one JSON document and keeps an in-memory
// snapshot equal to the last successful commit.
//
// Commits are serialized by a single writer lock. Readers load the current
// snapshot pointer and never wait on an in-flight commit; a snapshot is never
// mutated after it has been published.
type Store struct {
	path        string
	collections []string
	logger      logging.Logger
	notifiers   []ChangeNotifier

	writeMu  sync.Mutex
	snapshot atomic.Pointer[Document]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithNotifier registers a receiver for committed record changes. It may be
// given more than once; receivers are called in registration order.
func WithNotifier(notifier ChangeNotifier) Option {
	return func(s *Store) { s.notifiers = append(s.notifiers, notifier) }
}

// NewStore creates a store backed by the file at path. collections lists the
// names that must exist (possibly empty) in every loaded document.
func NewStore(path string, collections []string, opts ...Option) *Store {
	s := &Store{
		path:        path,
		collections: append([]string(nil), collections...),
		logger:      logging.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "store"))
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Loaded reports whether a document has been loaded or initialized.
func (s *Store) Loaded() bool { return s.snapshot.Load() != nil }

// Load reads the persisted document into memory. A missing or empty file is a
// valid empty state: every known collection is created empty and persisted as
// the new baseline.
func (s *Store) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s.initialize()
	case err != nil:
		return fmt.Errorf("%w: read document: %w", ErrStorageUnavailable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s.initialize()
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	for _, name := range s.collections {
		if _, ok := doc[name]; !ok {
			doc[name] = []json.RawMessage{}
		}
	}

	s.snapshot.Store(&doc)
	s.logger.Info("document loaded",
		zap.String("path", s.path),
		zap.Int("collections", len(doc)),
	)
	return nil
}

func (s *Store) initialize() error {
	doc := make(Document, len(s.collections))
	for _, name := range s.collections {
		doc[name] = []json.RawMessage{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data directory: %w", ErrStorageUnavailable, err)
	}
	if err := s.persist(doc); err != nil {
		return fmt.Errorf("%w: initialize document: %w", ErrStorageUnavailable, err)
	}

	s.snapshot.Store(&doc)
	s.logger.Info("document initialized", zap.String("path", s.path))
	return nil
}

// Collection returns a copy of the records in name as of the last commit. An
// unknown name, or a store that has not been loaded, yields an empty sequence.
func (s *Store) Collection(name string) []json.RawMessage {
	doc := s.snapshot.Load()
	if doc == nil {
		return []json.RawMessage{}
	}
	return cloneRecords((*doc)[name])
}

// Commit replaces the collection name with records and persists the whole
// document atomically. On failure the in-memory view keeps its previous value.
func (s *Store) Commit(ctx context.Context, name string, records []json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.commitLocked(name, records)
}

// Mutate runs a read-modify-write cycle on one collection under the writer
// lock: fn receives the current records and returns the replacement. An error
// from fn aborts the cycle without touching memory or disk.
func (s *Store) Mutate(ctx context.Context, name string, fn func([]json.RawMessage) ([]json.RawMessage, error)) error {
	return s.mutate(ctx, name, func(raws []json.RawMessage) ([]json.RawMessage, *Change, error) {
		next, err := fn(raws)
		return next, nil, err
	})
}

// mutate is Mutate for writes that describe themselves. The change is handed
// to the notifiers before the writer lock is released, so notifiers observe
// changes in commit order.
func (s *Store) mutate(ctx context.Context, name string, fn func([]json.RawMessage) ([]json.RawMessage, *Change, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, change, err := fn(s.Collection(name))
	if err != nil {
		return err
	}
	if err := s.commitLocked(name, next); err != nil {
		return err
	}
	if change != nil {
		s.notify(ctx, *change)
	}
	return nil
}

func (s *Store) commitLocked(name string, records []json.RawMessage) error {
	current := s.snapshot.Load()
	if current == nil {
		return fmt.Errorf("%w: document not loaded", ErrStorageUnavailable)
	}

	next := make(Document, len(*current)+1)
	for k, v := range *current {
		next[k] = v
	}
	next[name] = cloneRecords(records)

	if err := s.persist(next); err != nil {
		s.logger.Error("commit failed",
			zap.String("collection", name),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	s.snapshot.Store(&next)
	s.logger.Debug("collection committed",
		zap.String("collection", name),
		zap.Int("records", len(records)),
	)
	return nil
}

func (s *Store) persist(doc Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return WriteFileAtomic(s.path, data, 0o600)
}

// Export writes the last committed document to w.
func (s *Store) Export(w io.Writer) error {
	doc := s.snapshot.Load()
	if doc == nil {
		return fmt.Errorf("%w: document not loaded", ErrStorageUnavailable)
	}
	data, err := encodeDocument(*doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func (s *Store) notify(ctx context.Context, change Change) {
	for _, n := range s.notifiers {
		n.Notify(ctx, change)
	}
}

func cloneRecords(records []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	copy(out, records)
	return out
}
