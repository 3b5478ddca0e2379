package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the conversation and turn tables if they do not exist.
// Run once at startup before any repository is used.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	conversations := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, tables.Conversations)

	turns := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			conversation_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, tables.Turns, tables.Conversations)

	index := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_conversation_order
		ON %s (conversation_id, created_at, id)
	`, tables.Turns, tables.Turns)

	for _, query := range []string{conversations, turns, index} {
		if _, err := pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
