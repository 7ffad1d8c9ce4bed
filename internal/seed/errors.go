package seed

import (
	"errors"
	"fmt"

	"github.com/geocoder89/workoutseed/internal/store"
)

var (
	// ErrStoreUnavailable is the only error that aborts a run.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("already exists")
)

// ConflictError reports the first natural key that is already taken.
type ConflictError struct {
	Kind  store.Kind
	Field string
	Value any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s '%v' already exists", e.Kind, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// PersistenceError wraps a store failure for a single item.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
