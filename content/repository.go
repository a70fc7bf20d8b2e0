package content

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/docstore"
)

// Repository reads and writes one collection.
type Repository[T Entity] struct {
	store docstore.Store
	kind  Kind[T]
	log   *zap.Logger
}

// NewRepository returns a repository for kind backed by store.
func NewRepository[T Entity](store docstore.Store, kind Kind[T], log *zap.Logger) *Repository[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository[T]{store: store, kind: kind, log: log.With(zap.String("collection", kind.Collection))}
}

// Kind returns the repository's kind.
func (r *Repository[T]) Kind() Kind[T] { return r.kind }

// Fetch loads the whole collection in the kind's order. Documents that fail to
// decode are skipped.
func (r *Repository[T]) Fetch(ctx context.Context) ([]T, error) {
	q := docstore.Collection(r.kind.Collection)
	for _, o := range r.kind.Order {
		q = q.OrderBy(o.Field, o.Desc)
	}
	docs, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind.Collection, err)
	}
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := decode[T](d)
		if err != nil {
			r.log.Warn("skipping undecodable document", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		items = append(items, v)
	}
	if r.kind.Compare != nil {
		slices.SortStableFunc(items, r.kind.Compare)
	}
	return items, nil
}

// List is Fetch that never fails: a store error is logged and an empty
// slice returned so pages can still render.
func (r *Repository[T]) List(ctx context.Context) []T {
	items, err := r.Fetch(ctx)
	if err != nil {
		r.log.Warn("list failed, serving empty result", zap.Error(err))
		return []T{}
	}
	return items
}

// Get returns the entity with id, or ErrNotFound.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	d, err := r.store.Get(ctx, r.kind.Collection, id)
	if err != nil {
		return zero, err
	}
	return decode[T](d)
}

// Create stores v with a server-assigned createdAt and returns the new id.
func (r *Repository[T]) Create(ctx context.Context, v T) (string, error) {
	data := v.Fields()
	data["createdAt"] = docstore.ServerTimestamp
	id, err := r.store.Add(ctx, r.kind.Collection, data)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", r.kind.lower(), err)
	}
	return id, nil
}

// Update merges v's fields into the document id and stamps updatedAt.
// createdAt is left untouched.
func (r *Repository[T]) Update(ctx context.Context, id string, v T) error {
	data := v.Fields()
	data["updatedAt"] = docstore.ServerTimestamp
	if err := r.store.Update(ctx, r.kind.Collection, id, data); err != nil {
		return fmt.Errorf("update %s %s: %w", r.kind.lower(), id, err)
	}
	return nil
}

// Delete permanently removes id.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.kind.Collection, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", r.kind.lower(), id, err)
	}
	return nil
}
