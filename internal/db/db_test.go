package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/geocoder89/workoutseed/internal/config"
	"github.com/geocoder89/workoutseed/internal/store"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "seed.db")

	st, err := Open(ctx, config.Config{DBDriver: "sqlite", DBURL: dsn})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}

	sess, err := st.Open(ctx)
	if err != nil {
		t.Fatalf("session error: %v", err)
	}
	defer sess.Close(ctx)

	n, err := sess.Count(ctx, store.KindUser)
	if err != nil || n != 0 {
		t.Fatalf("expected empty users table, got %d err=%v", n, err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{DBDriver: "oracle"})
	if !errors.Is(err, config.ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestNewPool_BadURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "://not-a-url"); err == nil {
		t.Fatalf("expected parse error")
	}
}
