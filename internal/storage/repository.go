package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Action names the kind of committed change.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Change describes one committed record mutation.
type Change struct {
	Collection string
	Action     Action
	ID         string
}

// ChangeNotifier receives changes after they have been durably committed, in
// commit order. It is called with the store's writer lock held, so
// implementations must not block or write to the store.
type ChangeNotifier interface {
	Notify(ctx context.Context, change Change)
}

// RecordPtr is satisfied by a pointer to a record type carrying an identifier.
type RecordPtr[T any] interface {
	*T
	RecordID() string
	SetRecordID(id string)
}

// Repository is a typed view over one collection of a Store.
type Repository[T any, P RecordPtr[T]] struct {
	store      *Store
	collection string
	newID      func() string
}

// NewRepository returns a repository over the named collection.
func NewRepository[T any, P RecordPtr[T]](store *Store, collection string) *Repository[T, P] {
	return &Repository[T, P]{
		store:      store,
		collection: collection,
		newID:      uuid.NewString,
	}
}

// Collection returns the collection name.
func (r *Repository[T, P]) Collection() string { return r.collection }

// List decodes every record in insertion order.
func (r *Repository[T, P]) List(_ context.Context) ([]T, error) {
	raws := r.store.Collection(r.collection)
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		rec, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns the record with id or ErrNotFound.
func (r *Repository[T, P]) Get(_ context.Context, id string) (T, error) {
	raws := r.store.Collection(r.collection)
	if i := indexOf(raws, id); i >= 0 {
		return r.decode(raws[i])
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", r.collection, id, ErrNotFound)
}

// Find returns the first record matching match.
func (r *Repository[T, P]) Find(ctx context.Context, match func(T) bool) (T, bool, error) {
	records, err := r.List(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	for _, rec := range records {
		if match(rec) {
			return rec, true, nil
		}
	}
	var zero T
	return zero, false, nil
}

// Create assigns a fresh identifier to rec, appends it and commits. Each guard
// sees every existing record inside the commit critical section and may veto
// the insert by returning an error.
func (r *Repository[T, P]) Create(ctx context.Context, rec T, guards ...func(existing T) error) (T, error) {
	return r.CreateChecked(ctx, rec, nil, guards...)
}

// CreateChecked is Create with a check of rec itself. The check runs inside
// the commit critical section, so anything it reads from the store is the
// state the insert lands on.
func (r *Repository[T, P]) CreateChecked(ctx context.Context, rec T, check func(T) error, guards ...func(existing T) error) (T, error) {
	err := r.store.mutate(ctx, r.collection, func(raws []json.RawMessage) ([]json.RawMessage, *Change, error) {
		if check != nil {
			if err := check(rec); err != nil {
				return nil, nil, err
			}
		}
		if len(guards) > 0 {
			for _, raw := range raws {
				existing, err := r.decode(raw)
				if err != nil {
					return nil, nil, err
				}
				for _, guard := range guards {
					if err := guard(existing); err != nil {
						return nil, nil, err
					}
				}
			}
		}

		id := r.newID()
		for indexOf(raws, id) >= 0 {
			id = r.newID()
		}
		P(&rec).SetRecordID(id)

		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s record: %w", r.collection, err)
		}
		return append(raws, raw), &Change{Collection: r.collection, Action: ActionCreated, ID: id}, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Update decodes the record with id, lets apply modify it and commits the
// result. An error from apply leaves the collection unchanged. The identifier
// cannot be changed by apply.
func (r *Repository[T, P]) Update(ctx context.Context, id string, apply func(*T) error) (T, error) {
	var updated T
	err := r.store.mutate(ctx, r.collection, func(raws []json.RawMessage) ([]json.RawMessage, *Change, error) {
		i := indexOf(raws, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%s %q: %w", r.collection, id, ErrNotFound)
		}

		rec, err := r.decode(raws[i])
		if err != nil {
			return nil, nil, err
		}
		if err := apply(&rec); err != nil {
			return nil, nil, err
		}
		P(&rec).SetRecordID(id)

		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s record: %w", r.collection, err)
		}
		raws[i] = raw
		updated = rec
		return raws, &Change{Collection: r.collection, Action: ActionUpdated, ID: id}, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

// Upsert updates the record with id when it exists and otherwise inserts a new
// record with that id. apply receives the zero value for an insert.
func (r *Repository[T, P]) Upsert(ctx context.Context, id string, apply func(rec *T, exists bool) error) (T, error) {
	var result T
	err := r.store.mutate(ctx, r.collection, func(raws []json.RawMessage) ([]json.RawMessage, *Change, error) {
		i := indexOf(raws, id)

		var rec T
		if i >= 0 {
			decoded, err := r.decode(raws[i])
			if err != nil {
				return nil, nil, err
			}
			rec = decoded
		}
		if err := apply(&rec, i >= 0); err != nil {
			return nil, nil, err
		}
		P(&rec).SetRecordID(id)

		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s record: %w", r.collection, err)
		}
		result = rec
		if i >= 0 {
			raws[i] = raw
			return raws, &Change{Collection: r.collection, Action: ActionUpdated, ID: id}, nil
		}
		return append(raws, raw), &Change{Collection: r.collection, Action: ActionCreated, ID: id}, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Delete removes the record with id or returns ErrNotFound.
func (r *Repository[T, P]) Delete(ctx context.Context, id string) error {
	return r.DeleteChecked(ctx, id, nil)
}

// DeleteChecked is Delete with a check that may veto the removal. It runs
// inside the commit critical section with the record about to be removed.
func (r *Repository[T, P]) DeleteChecked(ctx context.Context, id string, check func(T) error) error {
	return r.store.mutate(ctx, r.collection, func(raws []json.RawMessage) ([]json.RawMessage, *Change, error) {
		i := indexOf(raws, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%s %q: %w", r.collection, id, ErrNotFound)
		}
		if check != nil {
			rec, err := r.decode(raws[i])
			if err != nil {
				return nil, nil, err
			}
			if err := check(rec); err != nil {
				return nil, nil, err
			}
		}
		return append(raws[:i], raws[i+1:]...), &Change{Collection: r.collection, Action: ActionDeleted, ID: id}, nil
	})
}

func (r *Repository[T, P]) decode(raw json.RawMessage) (T, error) {
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decode %s record: %w", r.collection, err)
	}
	return rec, nil
}

func indexOf(raws []json.RawMessage, id string) int {
	for i, raw := range raws {
		if rid, err := recordID(raw); err == nil && rid == id {
			return i
		}
	}
	return -1
}
