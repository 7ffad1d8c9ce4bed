package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
	"github.com/geocoder89/workoutseed/internal/store"
)

func TestSession_CommitMakesRowsVisible(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, _ := s.Open(ctx)
	defer a.Close(ctx)

	u := &user.User{Email: "maria@example.com", Username: "maria"}
	id, err := a.InsertUser(ctx, u)
	if err != nil {
		t.Fatalf("InsertUser error: %v", err)
	}

	// own pending write is visible, other sessions see nothing yet
	if _, found, _ := a.FindOne(ctx, store.Lookup{Kind: store.KindUser, Field: "email", Value: "maria@example.com"}); !found {
		t.Fatalf("expected pending user to be visible to its session")
	}

	b, _ := s.Open(ctx)
	defer b.Close(ctx)
	if _, found, _ := b.FindOne(ctx, store.Lookup{Kind: store.KindUser, Field: "username", Value: "maria"}); found {
		t.Fatalf("uncommitted user leaked into another session")
	}

	if err := a.Commit(ctx); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	got, found, err := b.FindOne(ctx, store.Lookup{Kind: store.KindUser, Field: "id", Value: id})
	if err != nil || !found || got != id {
		t.Fatalf("expected committed user %d, got %d found=%v err=%v", id, got, found, err)
	}
}

func TestSession_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	s := New()

	sess, _ := s.Open(ctx)
	defer sess.Close(ctx)

	if _, err := sess.InsertExercise(ctx, &exercise.Exercise{Name: "Cardio", Type: exercise.TimeBased}); err != nil {
		t.Fatalf("InsertExercise error: %v", err)
	}
	if err := sess.Rollback(ctx); err != nil {
		t.Fatalf("Rollback error: %v", err)
	}

	n, _ := sess.Count(ctx, store.KindExercise)
	if n != 0 {
		t.Fatalf("expected 0 exercises after rollback, got %d", n)
	}
	if len(s.Exercises()) != 0 {
		t.Fatalf("expected nothing committed")
	}
}

func TestSession_Constraints(t *testing.T) {
	ctx := context.Background()
	s := New()

	sess, _ := s.Open(ctx)
	defer sess.Close(ctx)

	if _, err := sess.InsertUser(ctx, &user.User{Email: "a@example.com", Username: "a"}); err != nil {
		t.Fatalf("InsertUser error: %v", err)
	}
	if _, err := sess.InsertUser(ctx, &user.User{Email: "b@example.com", Username: "a"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := sess.InsertTemplate(ctx, &workout.Template{Name: "Orphan", CreatedBy: 999}); !errors.Is(err, store.ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", err)
	}
}

func TestSession_UnknownLookupAndClose(t *testing.T) {
	ctx := context.Background()
	sess, _ := New().Open(ctx)

	if _, _, err := sess.FindOne(ctx, store.Lookup{Kind: store.KindUser, Field: "password_hash", Value: "x"}); !errors.Is(err, store.ErrUnknownLookup) {
		t.Fatalf("expected ErrUnknownLookup, got %v", err)
	}

	if err := sess.Close(ctx); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := sess.InsertExercise(ctx, &exercise.Exercise{Name: "Squat"}); !errors.Is(err, store.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}
