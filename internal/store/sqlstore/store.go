// Package sqlstore is the bun-backed store used for SQLite and MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registers "sqlite"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
	"github.com/geocoder89/workoutseed/internal/store"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

type Store struct {
	db *bun.DB
}

// Open connects to a "sqlite" or "mysql" DSN and verifies the connection.
// MySQL DSNs need parseTime=true so timestamps scan into time.Time.
func Open(driver, dsn string) (*Store, error) {
	sqlDB, err := sqlOpenFunc(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var db *bun.DB
	switch driver {
	case "sqlite":
		// one connection: seeding is sequential, and in-memory databases are
		// per connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case "mysql":
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		db = bun.NewDB(sqlDB, mysqldialect.New())
	default:
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if driver == "sqlite" {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*userRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*exerciseRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create exercises: %w", err)
	}
	_, err := s.db.NewCreateTable().
		Model((*templateRow)(nil)).
		IfNotExists().
		ForeignKey(`(created_by) REFERENCES users (id)`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create workout_templates: %w", err)
	}
	return nil
}

func (s *Store) Open(ctx context.Context) (store.Session, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &session{db: s.db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type session struct {
	db     *bun.DB
	tx     *bun.Tx
	closed bool
}

func (ss *session) begin(ctx context.Context) (*bun.Tx, error) {
	if ss.closed {
		return nil, store.ErrSessionClosed
	}

	if ss.tx == nil {
		tx, err := ss.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		ss.tx = &tx
	}
	return ss.tx, nil
}

func (ss *session) FindOne(ctx context.Context, l store.Lookup) (int64, bool, error) {
	if err := l.Check(); err != nil {
		return 0, false, err
	}

	tx, err := ss.begin(ctx)
	if err != nil {
		return 0, false, err
	}

	var id int64
	err = tx.NewSelect().
		Table(l.Kind.Table()).
		Column("id").
		Where("? = ?", bun.Ident(l.Field), l.Value).
		Limit(1).
		Scan(ctx, &id)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, mapError(err)
	}
	return id, true, nil
}

func (ss *session) insert(ctx context.Context, model any, id *int64) (int64, error) {
	tx, err := ss.begin(ctx)
	if err != nil {
		return 0, err
	}

	res, err := tx.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		return 0, mapError(err)
	}

	if *id == 0 {
		last, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		*id = last
	}
	return *id, nil
}

func (ss *session) InsertUser(ctx context.Context, u *user.User) (int64, error) {
	row := fromUser(u)
	id, err := ss.insert(ctx, row, &row.ID)
	if err != nil {
		return 0, err
	}
	u.ID = id
	return id, nil
}

func (ss *session) InsertExercise(ctx context.Context, e *exercise.Exercise) (int64, error) {
	row := fromExercise(e)
	id, err := ss.insert(ctx, row, &row.ID)
	if err != nil {
		return 0, err
	}
	e.ID = id
	return id, nil
}

func (ss *session) InsertTemplate(ctx context.Context, t *workout.Template) (int64, error) {
	row := fromTemplate(t)
	id, err := ss.insert(ctx, row, &row.ID)
	if err != nil {
		return 0, err
	}
	t.ID = id
	return id, nil
}

func (ss *session) ListUsers(ctx context.Context) ([]user.User, error) {
	tx, err := ss.begin(ctx)
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err := tx.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, mapError(err)
	}

	out := make([]user.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toUser())
	}
	return out, nil
}

func (ss *session) Count(ctx context.Context, kind store.Kind) (int, error) {
	if !kind.IsValid() {
		return 0, store.ErrUnknownLookup
	}

	tx, err := ss.begin(ctx)
	if err != nil {
		return 0, err
	}

	n, err := tx.NewSelect().Table(kind.Table()).Count(ctx)
	return n, mapError(err)
}

func (ss *session) Commit(ctx context.Context) error {
	if ss.closed {
		return store.ErrSessionClosed
	}
	if ss.tx == nil {
		return nil
	}

	tx := ss.tx
	ss.tx = nil
	return mapError(tx.Commit())
}

func (ss *session) Rollback(ctx context.Context) error {
	if ss.closed {
		return store.ErrSessionClosed
	}
	if ss.tx == nil {
		return nil
	}

	tx := ss.tx
	ss.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (ss *session) Close(ctx context.Context) error {
	if ss.closed {
		return nil
	}
	err := ss.Rollback(ctx)
	ss.closed = true
	return err
}
