//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
	"github.com/geocoder89/workoutseed/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("workouts"),
		postgrescontainer.WithUsername("workouts"),
		postgrescontainer.WithPassword("workouts"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	s := New(pool)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close(ctx) })

	now := time.Now().UTC().Truncate(time.Microsecond)
	u := &user.User{Email: "maria@example.com", Username: "maria", PasswordHash: "x", FullName: "Maria Garcia", IsActive: true, CreatedAt: now, UpdatedAt: now}
	uid, err := sess.InsertUser(ctx, u)
	require.NoError(t, err)
	require.NoError(t, sess.Commit(ctx))

	_, err = sess.InsertUser(ctx, &user.User{Email: "maria@example.com", Username: "other", PasswordHash: "x", CreatedAt: now, UpdatedAt: now})
	require.True(t, errors.Is(err, store.ErrDuplicate), "got %v", err)
	require.NoError(t, sess.Rollback(ctx))

	_, err = sess.InsertExercise(ctx, &exercise.Exercise{Name: "Cardio", Type: exercise.TimeBased, IsActive: true, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	require.NoError(t, sess.Commit(ctx))

	created := time.Date(2025, 11, 4, 20, 30, 0, 0, time.UTC)
	tid, err := sess.InsertTemplate(ctx, &workout.Template{Name: "Rutina HIIT", Description: "Intenso", IsPublic: true, CreatedBy: uid, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)
	require.NoError(t, sess.Commit(ctx))

	got, found, err := sess.FindOne(ctx, store.Lookup{Kind: store.KindTemplate, Field: "name", Value: "Rutina HIIT"})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, tid, got)

	_, err = sess.InsertTemplate(ctx, &workout.Template{Name: "Orphan", Description: "x", CreatedBy: uid + 100, CreatedAt: now, UpdatedAt: now})
	require.True(t, errors.Is(err, store.ErrForeignKey), "got %v", err)
	require.NoError(t, sess.Rollback(ctx))

	users, err := sess.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Maria Garcia", users[0].FullName)

	n, err := sess.Count(ctx, store.KindExercise)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
