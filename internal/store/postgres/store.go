package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/domain/workout"
	"github.com/geocoder89/workoutseed/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

// constructor function

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Open(ctx context.Context) (store.Session, error) {
	conn, err := s.pool.Acquire(ctx)

	if err != nil {
		return nil, err
	}

	return &session{conn: conn}, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)

	return err
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// session owns one pooled connection for the whole run.
type session struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
}

func (ss *session) begin(ctx context.Context) (pgx.Tx, error) {
	if ss.conn == nil {
		return nil, store.ErrSessionClosed
	}

	if ss.tx == nil {
		tx, err := ss.conn.Begin(ctx)
		if err != nil {
			return nil, err
		}
		ss.tx = tx
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

	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1 LIMIT 1`,
		pgx.Identifier{l.Kind.Table()}.Sanitize(),
		pgx.Identifier{l.Field}.Sanitize(),
	)

	var id int64
	err = tx.QueryRow(ctx, query, l.Value).Scan(&id)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, mapError(err)
	}

	return id, true, nil
}

func (ss *session) InsertUser(ctx context.Context, u *user.User) (int64, error) {
	tx, err := ss.begin(ctx)
	if err != nil {
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, username, hashed_password, full_name, is_active, is_admin, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`,
		u.Email, u.Username, u.PasswordHash, u.FullName, u.IsActive, u.IsAdmin, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)

	if err != nil {
		return 0, mapError(err)
	}

	return u.ID, nil
}

func (ss *session) InsertExercise(ctx context.Context, e *exercise.Exercise) (int64, error) {
	tx, err := ss.begin(ctx)
	if err != nil {
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO exercises (name, description, exercise_type, muscle_group, equipment, instructions, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id`,
		e.Name, e.Description, string(e.Type), e.MuscleGroup, e.Equipment, e.Instructions, e.IsActive, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)

	if err != nil {
		return 0, mapError(err)
	}

	return e.ID, nil
}

func (ss *session) InsertTemplate(ctx context.Context, t *workout.Template) (int64, error) {
	tx, err := ss.begin(ctx)
	if err != nil {
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO workout_templates (name, description, is_public, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`,
		t.Name, t.Description, t.IsPublic, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)

	if err != nil {
		return 0, mapError(err)
	}

	return t.ID, nil
}

func (ss *session) ListUsers(ctx context.Context) ([]user.User, error) {
	tx, err := ss.begin(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT id, email, username, hashed_password, full_name, is_active, is_admin, created_at, updated_at
		FROM users
		ORDER BY id ASC`,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		err = rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName, &u.IsActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}

	return out, rows.Err()
}

func (ss *session) Count(ctx context.Context, kind store.Kind) (int, error) {
	if !kind.IsValid() {
		return 0, store.ErrUnknownLookup
	}

	tx, err := ss.begin(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM `+pgx.Identifier{kind.Table()}.Sanitize()).Scan(&n)

	return n, mapError(err)
}

func (ss *session) Commit(ctx context.Context) error {
	if ss.conn == nil {
		return store.ErrSessionClosed
	}
	if ss.tx == nil {
		return nil
	}

	tx := ss.tx
	ss.tx = nil

	return mapError(tx.Commit(ctx))
}

func (ss *session) Rollback(ctx context.Context) error {
	if ss.conn == nil {
		return store.ErrSessionClosed
	}
	if ss.tx == nil {
		return nil
	}

	tx := ss.tx
	ss.tx = nil

	err := tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (ss *session) Close(ctx context.Context) error {
	if ss.conn == nil {
		return nil
	}

	err := ss.Rollback(ctx)
	ss.conn.Release()
	ss.conn = nil

	return err
}

// mapError turns constraint violations into store sentinels and keeps the
// driver error in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
		case "23503":
			return fmt.Errorf("%w: %w", store.ErrForeignKey, err)
		}
	}

	return err
}
