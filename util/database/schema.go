package database

import (
	"context"
	"database/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'STUDENT',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS authors (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		bio  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id               BIGSERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		author_id        BIGINT NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
		isbn             TEXT,
		available_copies BIGINT NOT NULL DEFAULT 1 CHECK (available_copies >= 0),
		total_copies     BIGINT NOT NULL DEFAULT 1 CHECK (total_copies >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS book_genres (
		book_id  BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		genre_id BIGINT NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (book_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS borrow_requests (
		id           BIGSERIAL PRIMARY KEY,
		book_id      BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status       TEXT NOT NULL DEFAULT 'PENDING',
		requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		approved_at  TIMESTAMPTZ,
		returned_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS borrow_requests_user_idx
		ON borrow_requests (user_id, requested_at DESC)`,
	`CREATE TABLE IF NOT EXISTS book_reviews (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		book_id    BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		rating     SMALLINT NOT NULL CHECK (rating > 0),
		comment    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT book_reviews_user_book_key UNIQUE (user_id, book_id)
	)`,
}

// EnsureSchema creates all tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
