// Package store defines the persistence collaborator of a seed run: a Store
// hands out one Session per run, and the Session is the only handle the
// run touches until it is closed.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
)

type Kind string

const (
	KindUser     Kind = "user"
	KindExercise Kind = "exercise"
	KindTemplate Kind = "workout_template"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindUser, KindExercise, KindTemplate:
		return true
	default:
		return false
	}
}

var (
	ErrDuplicate     = errors.New("duplicate record")
	ErrForeignKey    = errors.New("referenced record does not exist")
	ErrUnknownLookup = errors.New("unknown lookup field")
	ErrSessionClosed = errors.New("session closed")
)

// Lookup is an equality predicate on one natural key (or the surrogate id).
type Lookup struct {
	Kind  Kind
	Field string
	Value any
}

// lookupFields whitelists the columns a Lookup may filter on.
var lookupFields = map[Kind]map[string]bool{
	KindUser:     {"id": true, "email": true, "username": true},
	KindExercise: {"id": true, "name": true},
	KindTemplate: {"id": true, "name": true},
}

// Check rejects lookups on columns that are not natural keys.
func (l Lookup) Check() error {
	if !l.Kind.IsValid() || !lookupFields[l.Kind][l.Field] {
		return fmt.Errorf("%w: %s.%s", ErrUnknownLookup, l.Kind, l.Field)
	}
	return nil
}

// Table maps a kind to its relational table.
func (k Kind) Table() string {
	switch k {
	case KindUser:
		return "users"
	case KindExercise:
		return "exercises"
	case KindTemplate:
		return "workout_templates"
	default:
		return ""
	}
}

type Store interface {
	// Open acquires the connection a run works on. A failure here means the
	// store is unreachable.
	Open(ctx context.Context) (Session, error)
	EnsureSchema(ctx context.Context) error
	Close() error
}

// Session is transactional: writes become visible to other sessions on
// Commit and are discarded on Rollback. A transaction starts implicitly on
// the first call after Open, Commit or Rollback.
type Session interface {
	FindOne(ctx context.Context, l Lookup) (id int64, found bool, err error)
	InsertUser(ctx context.Context, u *user.User) (int64, error)
	InsertExercise(ctx context.Context, e *exercise.Exercise) (int64, error)
	InsertTemplate(ctx context.Context, t *workout.Template) (int64, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	Count(ctx context.Context, kind Kind) (int, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Close rolls back anything uncommitted and releases the connection.
	Close(ctx context.Context) error
}
