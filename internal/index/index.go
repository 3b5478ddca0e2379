// Package index stores writing-advice passages in a local SQLite database
// with a sqlite-vec virtual table for semantic search. It is the
// semantic-search collaborator consumed by the librarian.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smolblud/forge/internal/domain"
	"github.com/smolblud/forge/internal/domain/models"
)

// Embedder converts text into the vector space the index was built with.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Index is a sqlite-vec backed advice store.
type Index struct {
	db       *sql.DB
	embedder Embedder
	logger   *slog.Logger
}

// Open opens (or creates) the advice index at path and ensures its schema.
func Open(path string, embedder Embedder, logger *slog.Logger) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open advice index: %w", err)
	}

	ix := &Index{db: db, embedder: embedder, logger: logger}
	if err := ix.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return ix, nil
}

func (ix *Index) ensureSchema() error {
	advice := `
		CREATE TABLE IF NOT EXISTS advice (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL
		)
	`
	if _, err := ix.db.Exec(advice); err != nil {
		return fmt.Errorf("create advice table: %w", err)
	}

	vecTable := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS advice_vec USING vec0(
			embedding float[%d],
			advice_id INTEGER
		)
	`, ix.embedder.Dimensions())
	if _, err := ix.db.Exec(vecTable); err != nil {
		return fmt.Errorf("create advice_vec table: %w", err)
	}

	return nil
}

// Upsert embeds content and stores it under title, replacing any previous
// entry with the same title. Used by the one-time ingest step.
func (ix *Index) Upsert(ctx context.Context, title, content string) error {
	vector, err := ix.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed advice %q: %w", title, err)
	}

	blob, err := serializeVector(vector)
	if err != nil {
		return fmt.Errorf("serialize embedding: %w", err)
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO advice (title, content) VALUES (?, ?)
		ON CONFLICT(title) DO UPDATE SET content = excluded.content
	`, title, content); err != nil {
		return fmt.Errorf("upsert advice: %w", err)
	}

	// LastInsertId is stale after a conflicting update, so resolve the id
	// by title instead.
	var adviceID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM advice WHERE title = ?`, title).Scan(&adviceID); err != nil {
		return fmt.Errorf("resolve advice id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM advice_vec WHERE advice_id = ?`, adviceID); err != nil {
		return fmt.Errorf("clear stale embedding: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO advice_vec (embedding, advice_id) VALUES (?, ?)`, blob, adviceID); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}

	return tx.Commit()
}

// Search embeds the query and returns the closest advice passages by cosine
// distance, best first. Scores are 1 - distance, in [0, 1] for normalized
// embeddings.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]models.AdviceHit, error) {
	if limit <= 0 {
		limit = 3
	}

	vector, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %v: %w", err, domain.ErrUnavailable)
	}

	blob, err := serializeVector(vector)
	if err != nil {
		return nil, fmt.Errorf("serialize query embedding: %w", err)
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT a.title, a.content, vec_distance_cosine(v.embedding, ?) AS distance
		FROM advice_vec v
		JOIN advice a ON a.id = v.advice_id
		ORDER BY distance ASC
		LIMIT ?
	`, blob, limit)
	if err != nil {
		return nil, fmt.Errorf("advice search: %w", err)
	}
	defer rows.Close()

	var hits []models.AdviceHit
	for rows.Next() {
		var hit models.AdviceHit
		var distance float64
		if err := rows.Scan(&hit.Title, &hit.Text, &distance); err != nil {
			return nil, fmt.Errorf("scan advice hit: %w", err)
		}
		hit.Score = 1.0 - distance
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate advice hits: %w", err)
	}

	return hits, nil
}

// Count returns the number of indexed advice passages.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM advice`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count advice: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}
