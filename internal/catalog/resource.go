package catalog

import (
	"context"
	"time"

	"github.com/dhima/catalog-service/internal/storage"
	"github.com/dhima/catalog-service/pkg/clock"
)

// Record is satisfied by a pointer to a catalog record type.
type Record[T any] interface {
	storage.RecordPtr[T]
	Touch(now time.Time)
}

// Patch is a partial update that overwrites only the fields it carries.
type Patch[T any] interface {
	Apply(rec *T)
}

// Validator checks a record before it is committed.
type Validator[T any] func(ctx context.Context, rec T) error

// Resource is the repository for one kind of catalog record. Every write is
// validated and timestamped before it reaches the store.
type Resource[T any, P Record[T]] struct {
	repo        *storage.Repository[T, P]
	clock       clock.Clock
	validate    Validator[T]
	deleteCheck func(ctx context.Context, rec T) error
}

// NewResource returns a resource over the named collection.
func NewResource[T any, P Record[T]](store *storage.Store, collection string, clk clock.Clock, validate Validator[T]) *Resource[T, P] {
	if validate == nil {
		validate = func(context.Context, T) error { return nil }
	}
	return &Resource[T, P]{
		repo:     storage.NewRepository[T, P](store, collection),
		clock:    clk,
		validate: validate,
	}
}

// List returns every record in insertion order.
func (r *Resource[T, P]) List(ctx context.Context) ([]T, error) {
	return r.repo.List(ctx)
}

// Get returns the record with id or storage.ErrNotFound.
func (r *Resource[T, P]) Get(ctx context.Context, id string) (T, error) {
	return r.repo.Get(ctx, id)
}

// Create stamps rec, validates it and stores it under a fresh identifier.
// Validation runs inside the commit, so references it resolves cannot vanish
// before the record lands.
func (r *Resource[T, P]) Create(ctx context.Context, rec T) (T, error) {
	P(&rec).Touch(r.clock.Now())
	return r.repo.CreateChecked(ctx, rec, func(rec T) error {
		return r.validate(ctx, rec)
	})
}

// Update applies patch to the record with id. The merged record must pass
// validation or nothing is written.
func (r *Resource[T, P]) Update(ctx context.Context, id string, patch Patch[T]) (T, error) {
	return r.repo.Update(ctx, id, func(rec *T) error {
		patch.Apply(rec)
		P(rec).Touch(r.clock.Now())
		return r.validate(ctx, *rec)
	})
}

// Delete removes the record with id or returns storage.ErrNotFound.
func (r *Resource[T, P]) Delete(ctx context.Context, id string) error {
	if r.deleteCheck == nil {
		return r.repo.Delete(ctx, id)
	}
	return r.repo.DeleteChecked(ctx, id, func(rec T) error {
		return r.deleteCheck(ctx, rec)
	})
}
