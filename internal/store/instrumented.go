package store

import (
	"context"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
)

// Observer times one logical store operation.
type Observer interface {
	ObserveDB(op string, fn func() error) error
}

// Instrument wraps st so every session call is reported to obs under a
// logical op name such as "user.insert" or "session.commit".
func Instrument(st Store, obs Observer) Store {
	return &instrumented{next: st, obs: obs}
}

type instrumented struct {
	next Store
	obs  Observer
}

func (s *instrumented) Open(ctx context.Context) (Session, error) {
	var sess Session
	err := s.obs.ObserveDB("session.open", func() error {
		var err error
		sess, err = s.next.Open(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &instrumentedSession{next: sess, obs: s.obs}, nil
}

func (s *instrumented) EnsureSchema(ctx context.Context) error {
	return s.obs.ObserveDB("schema.ensure", func() error {
		return s.next.EnsureSchema(ctx)
	})
}

func (s *instrumented) Close() error {
	return s.next.Close()
}

type instrumentedSession struct {
	next Session
	obs  Observer
}

func (s *instrumentedSession) FindOne(ctx context.Context, l Lookup) (id int64, found bool, err error) {
	err = s.obs.ObserveDB(string(l.Kind)+".find_by_"+l.Field, func() error {
		var err error
		id, found, err = s.next.FindOne(ctx, l)
		return err
	})
	return id, found, err
}

func (s *instrumentedSession) InsertUser(ctx context.Context, u *user.User) (id int64, err error) {
	err = s.obs.ObserveDB("user.insert", func() error {
		var err error
		id, err = s.next.InsertUser(ctx, u)
		return err
	})
	return id, err
}

func (s *instrumentedSession) InsertExercise(ctx context.Context, e *exercise.Exercise) (id int64, err error) {
	err = s.obs.ObserveDB("exercise.insert", func() error {
		var err error
		id, err = s.next.InsertExercise(ctx, e)
		return err
	})
	return id, err
}

func (s *instrumentedSession) InsertTemplate(ctx context.Context, t *workout.Template) (id int64, err error) {
	err = s.obs.ObserveDB("workout_template.insert", func() error {
		var err error
		id, err = s.next.InsertTemplate(ctx, t)
		return err
	})
	return id, err
}

func (s *instrumentedSession) ListUsers(ctx context.Context) (users []user.User, err error) {
	err = s.obs.ObserveDB("user.list", func() error {
		var err error
		users, err = s.next.ListUsers(ctx)
		return err
	})
	return users, err
}

func (s *instrumentedSession) Count(ctx context.Context, kind Kind) (n int, err error) {
	err = s.obs.ObserveDB(string(kind)+".count", func() error {
		var err error
		n, err = s.next.Count(ctx, kind)
		return err
	})
	return n, err
}

func (s *instrumentedSession) Commit(ctx context.Context) error {
	return s.obs.ObserveDB("session.commit", func() error { return s.next.Commit(ctx) })
}

func (s *instrumentedSession) Rollback(ctx context.Context) error {
	return s.obs.ObserveDB("session.rollback", func() error { return s.next.Rollback(ctx) })
}

func (s *instrumentedSession) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
