package content

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/toast"
)

// Manager runs the create/update/delete flows for one collection: validate,
// write, notify the user, then refresh the cached list.
type Manager[T Entity] struct {
	cache *Cache[T]
	repo  *Repository[T]
	log   *zap.Logger
}

// NewManager returns a Manager that refreshes cache after each write.
func NewManager[T Entity](cache *Cache[T]) *Manager[T] {
	return &Manager[T]{cache: cache, repo: cache.repo, log: cache.log}
}

// Cache returns the list cache the manager keeps fresh.
func (m *Manager[T]) Cache() *Cache[T] { return m.cache }

func (m *Manager[T]) kind() Kind[T] { return m.repo.kind }

func (m *Manager[T]) invalid(n toast.Notifier, err error) error {
	toast.Errorf(n, "Missing Information", validationMessage(err))
	return err
}

// Create validates v and stores it. The returned id is empty on failure.
func (m *Manager[T]) Create(ctx context.Context, n toast.Notifier, v T) (string, error) {
	if err := v.Validate(); err != nil {
		return "", m.invalid(n, err)
	}
	id, err := m.repo.Create(ctx, v)
	if err != nil {
		m.log.Error("create failed", zap.Error(err))
		toast.Errorf(n, "Error", "Error saving "+m.kind().lower()+". Please try again.")
		return "", err
	}
	toast.Successf(n, "Success", m.kind().Singular+" "+m.kind().CreatedVerb+" successfully!")
	m.cache.Refresh(ctx)
	return id, nil
}

// Update validates v and merges it into id.
func (m *Manager[T]) Update(ctx context.Context, n toast.Notifier, id string, v T) error {
	if err := v.Validate(); err != nil {
		return m.invalid(n, err)
	}
	if err := m.repo.Update(ctx, id, v); err != nil {
		m.log.Error("update failed", zap.String("id", id), zap.Error(err))
		toast.Errorf(n, "Error", "Error saving "+m.kind().lower()+". Please try again.")
		return err
	}
	toast.Successf(n, "Success", m.kind().Singular+" updated successfully!")
	m.cache.Refresh(ctx)
	return nil
}

// Delete removes id once the user has confirmed. Without confirmation it
// returns ErrDeleteNotConfirmed and the store is not touched.
func (m *Manager[T]) Delete(ctx context.Context, n toast.Notifier, id string, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		m.log.Error("delete failed", zap.String("id", id), zap.Error(err))
		toast.Errorf(n, "Error", "Error deleting "+m.kind().lower()+". Please try again.")
		return err
	}
	toast.Successf(n, "Success", m.kind().Singular+" deleted successfully!")
	m.cache.Refresh(ctx)
	return nil
}

// validationMessage renders joined field errors as one sentence per field.
func validationMessage(err error) string {
	var parts []string
	for _, line := range strings.Split(err.Error(), "\n") {
		parts = append(parts, strings.TrimPrefix(line, ErrValidation.Error()+": "))
	}
	if len(parts) == 0 || !errors.Is(err, ErrValidation) {
		return err.Error()
	}
	return strings.Join(parts, "; ")
}
