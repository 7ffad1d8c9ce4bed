package postgres

// schema creates the seed tables when they are missing. It is not a
// migration: existing tables are left as they are.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	email           TEXT NOT NULL UNIQUE,
	username        TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	full_name       TEXT NOT NULL DEFAULT '',
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	is_admin        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS exercises (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	exercise_type TEXT NOT NULL,
	muscle_group  TEXT NOT NULL DEFAULT '',
	equipment     TEXT NOT NULL DEFAULT '',
	instructions  TEXT NOT NULL DEFAULT '',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS exercises_name_idx ON exercises (name);

CREATE TABLE IF NOT EXISTS workout_templates (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_public   BOOLEAN NOT NULL DEFAULT FALSE,
	created_by  BIGINT NOT NULL REFERENCES users (id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS workout_templates_name_idx ON workout_templates (name);
`
