package archive

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a run ID is not in the archive.
var ErrNotFound = errors.New("run not found")

// Storage persists archived runs.
type Storage interface {
	// Store saves a run. Storing an existing ID replaces it.
	Store(ctx context.Context, record *Record) error

	// Get returns the run with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns matching runs, newest first.
	List(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of archived runs.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes runs started before t.
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)

	// DeleteOldest removes the oldest runs so that at most keep remain.
	DeleteOldest(ctx context.Context, keep int) (int64, error)

	Close() error
}

// StorageError is a failed storage operation.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("archive error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func newStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
