package seed

import (
	"context"

	"github.com/geocoder89/workoutseed/internal/store"
)

// Key is one natural key of an entity.
type Key struct {
	Field string
	Value any
}

// Guard looks natural keys up before anything is built or written.
type Guard struct {
	sess store.Session
}

func NewGuard(sess store.Session) Guard {
	return Guard{sess: sess}
}

func (g Guard) Exists(ctx context.Context, kind store.Kind, k Key) (bool, error) {
	_, found, err := g.sess.FindOne(ctx, store.Lookup{Kind: kind, Field: k.Field, Value: k.Value})
	return found, err
}

// Check tests keys in order and returns a *ConflictError for the first one
// that is taken. Lookup failures come back as *PersistenceError.
func (g Guard) Check(ctx context.Context, kind store.Kind, keys ...Key) error {
	for _, k := range keys {
		found, err := g.Exists(ctx, kind, k)
		if err != nil {
			return &PersistenceError{Op: "lookup " + string(kind) + "." + k.Field, Err: err}
		}
		if found {
			return &ConflictError{Kind: kind, Field: k.Field, Value: k.Value}
		}
	}
	return nil
}
