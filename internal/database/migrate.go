package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema. The UNIQUE NULLS NOT DISTINCT constraint on
// chat_rooms is the correctness backstop for concurrent find-or-create: two
// requests racing on the same canonical pair and pet can never both insert.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash BYTEA NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS pets (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			species      TEXT NOT NULL,
			breed        TEXT NOT NULL DEFAULT '',
			age_text     TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			city         TEXT NOT NULL DEFAULT '',
			image_url    TEXT,
			created_by   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_published BOOLEAN NOT NULL DEFAULT TRUE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS chat_rooms (
			id         TEXT PRIMARY KEY,
			pet_id     TEXT REFERENCES pets(id) ON DELETE CASCADE,
			user1_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user2_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT chat_rooms_canonical_order CHECK (user1_id < user2_id),
			CONSTRAINT chat_rooms_pair_unique UNIQUE NULLS NOT DISTINCT (pet_id, user1_id, user2_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id         TEXT PRIMARY KEY,
			room_id    TEXT NOT NULL REFERENCES chat_rooms(id) ON DELETE CASCADE,
			sender_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content    TEXT NOT NULL,
			sent_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room_sent ON messages (room_id, sent_at)`,
		`CREATE INDEX IF NOT EXISTS idx_pets_published ON pets (is_published)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_rooms_user1 ON chat_rooms (user1_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_rooms_user2 ON chat_rooms (user2_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
