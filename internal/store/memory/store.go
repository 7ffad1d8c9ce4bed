package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
	"github.com/geocoder89/workoutseed/internal/store"
)

// Store keeps committed rows in maps keyed by id. Sessions buffer their
// inserts and apply them on Commit.
type Store struct {
	mu        sync.RWMutex
	nextID    int64
	users     map[int64]user.User
	exercises map[int64]exercise.Exercise
	templates map[int64]workout.Template
}

func New() *Store {
	return &Store{
		users:     make(map[int64]user.User),
		exercises: make(map[int64]exercise.Exercise),
		templates: make(map[int64]workout.Template),
	}
}

func (s *Store) Open(ctx context.Context) (store.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{s: s}, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Users returns a snapshot of committed users ordered by id.
func (s *Store) Users() []user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Exercises() []exercise.Exercise {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]exercise.Exercise, 0, len(s.exercises))
	for _, e := range s.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Templates() []workout.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]workout.Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) allocID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

type session struct {
	s       *Store
	closed  bool
	pending struct {
		users     []user.User
		exercises []exercise.Exercise
		templates []workout.Template
	}
}

func (ss *session) FindOne(ctx context.Context, l store.Lookup) (int64, bool, error) {
	if ss.closed {
		return 0, false, store.ErrSessionClosed
	}
	if err := l.Check(); err != nil {
		return 0, false, err
	}

	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	switch l.Kind {
	case store.KindUser:
		for _, u := range ss.visibleUsers() {
			if matchUser(u, l) {
				return u.ID, true, nil
			}
		}
	case store.KindExercise:
		for _, e := range ss.visibleExercises() {
			if (l.Field == "id" && e.ID == toInt64(l.Value)) || (l.Field == "name" && e.Name == l.Value) {
				return e.ID, true, nil
			}
		}
	case store.KindTemplate:
		for _, t := range ss.visibleTemplates() {
			if (l.Field == "id" && t.ID == toInt64(l.Value)) || (l.Field == "name" && t.Name == l.Value) {
				return t.ID, true, nil
			}
		}
	}
	return 0, false, nil
}

func matchUser(u user.User, l store.Lookup) bool {
	switch l.Field {
	case "id":
		return u.ID == toInt64(l.Value)
	case "email":
		return u.Email == l.Value
	case "username":
		return u.Username == l.Value
	}
	return false
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	default:
		return -1
	}
}

// visible* must be called with the store lock held.
func (ss *session) visibleUsers() []user.User {
	out := make([]user.User, 0, len(ss.s.users)+len(ss.pending.users))
	for _, u := range ss.s.users {
		out = append(out, u)
	}
	return append(out, ss.pending.users...)
}

func (ss *session) visibleExercises() []exercise.Exercise {
	out := make([]exercise.Exercise, 0, len(ss.s.exercises)+len(ss.pending.exercises))
	for _, e := range ss.s.exercises {
		out = append(out, e)
	}
	return append(out, ss.pending.exercises...)
}

func (ss *session) visibleTemplates() []workout.Template {
	out := make([]workout.Template, 0, len(ss.s.templates)+len(ss.pending.templates))
	for _, t := range ss.s.templates {
		out = append(out, t)
	}
	return append(out, ss.pending.templates...)
}

func (ss *session) InsertUser(ctx context.Context, u *user.User) (int64, error) {
	if ss.closed {
		return 0, store.ErrSessionClosed
	}

	ss.s.mu.RLock()
	for _, existing := range ss.visibleUsers() {
		if existing.Email == u.Email || existing.Username == u.Username {
			ss.s.mu.RUnlock()
			return 0, store.ErrDuplicate
		}
	}
	ss.s.mu.RUnlock()

	u.ID = ss.s.allocID()
	ss.pending.users = append(ss.pending.users, *u)
	return u.ID, nil
}

// exercise names are only unique by seed convention, so no check here
func (ss *session) InsertExercise(ctx context.Context, e *exercise.Exercise) (int64, error) {
	if ss.closed {
		return 0, store.ErrSessionClosed
	}
	e.ID = ss.s.allocID()
	ss.pending.exercises = append(ss.pending.exercises, *e)
	return e.ID, nil
}

func (ss *session) InsertTemplate(ctx context.Context, t *workout.Template) (int64, error) {
	if ss.closed {
		return 0, store.ErrSessionClosed
	}

	ss.s.mu.RLock()
	_, ownerExists := ss.s.users[t.CreatedBy]
	if !ownerExists {
		for _, u := range ss.pending.users {
			if u.ID == t.CreatedBy {
				ownerExists = true
			}
		}
	}
	ss.s.mu.RUnlock()

	if !ownerExists {
		return 0, store.ErrForeignKey
	}

	t.ID = ss.s.allocID()
	ss.pending.templates = append(ss.pending.templates, *t)
	return t.ID, nil
}

func (ss *session) ListUsers(ctx context.Context) ([]user.User, error) {
	if ss.closed {
		return nil, store.ErrSessionClosed
	}

	ss.s.mu.RLock()
	out := ss.visibleUsers()
	ss.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (ss *session) Count(ctx context.Context, kind store.Kind) (int, error) {
	if ss.closed {
		return 0, store.ErrSessionClosed
	}

	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	switch kind {
	case store.KindUser:
		return len(ss.s.users) + len(ss.pending.users), nil
	case store.KindExercise:
		return len(ss.s.exercises) + len(ss.pending.exercises), nil
	case store.KindTemplate:
		return len(ss.s.templates) + len(ss.pending.templates), nil
	default:
		return 0, store.ErrUnknownLookup
	}
}

func (ss *session) Commit(ctx context.Context) error {
	if ss.closed {
		return store.ErrSessionClosed
	}

	ss.s.mu.Lock()
	for _, u := range ss.pending.users {
		ss.s.users[u.ID] = u
	}
	for _, e := range ss.pending.exercises {
		ss.s.exercises[e.ID] = e
	}
	for _, t := range ss.pending.templates {
		ss.s.templates[t.ID] = t
	}
	ss.s.mu.Unlock()

	ss.reset()
	return nil
}

func (ss *session) Rollback(ctx context.Context) error {
	if ss.closed {
		return store.ErrSessionClosed
	}
	ss.reset()
	return nil
}

func (ss *session) Close(ctx context.Context) error {
	if ss.closed {
		return nil
	}
	ss.reset()
	ss.closed = true
	return nil
}

func (ss *session) reset() {
	ss.pending.users = nil
	ss.pending.exercises = nil
	ss.pending.templates = nil
}
