// Package store records per-document indexing status in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/ingestion"
	apperrors "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL,
	content_size INTEGER NOT NULL,
	shard_id     INTEGER NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	indexed_at   TIMESTAMPTZ
)`

// StatusStore reads and writes rows of the documents table.
type StatusStore struct {
	db *postgres.Client
}

func New(db *postgres.Client) *StatusStore {
	return &StatusStore{db: db}
}

// EnsureSchema creates the documents table when it is missing.
func (s *StatusStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// MarkPending inserts the document as PENDING, or resets an existing row
// when the document is re-ingested.
func (s *StatusStore) MarkPending(ctx context.Context, rec ingestion.DocumentRecord) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, title, content_hash, content_size, shard_id, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				content_hash = EXCLUDED.content_hash,
				content_size = EXCLUDED.content_size,
				shard_id = EXCLUDED.shard_id,
				status = EXCLUDED.status,
				indexed_at = NULL`,
			rec.DocumentID, rec.Title, rec.ContentHash, rec.ContentSize, rec.ShardID, ingestion.StatusPending)
		if err != nil {
			return fmt.Errorf("upserting document %s: %w", rec.DocumentID, err)
		}
		return nil
	})
}

// UpdateStatus sets the status of a document, stamping indexed_at when it
// becomes INDEXED.
func (s *StatusStore) UpdateStatus(ctx context.Context, docID, status string) error {
	res, err := s.db.DB.ExecContext(ctx,
		`UPDATE documents
		SET status = $1, indexed_at = CASE WHEN $1 = 'INDEXED' THEN NOW() ELSE indexed_at END
		WHERE id = $2`,
		status, docID,
	)
	if err != nil {
		return fmt.Errorf("updating status of %s: %w", docID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating status of %s: %w", docID, apperrors.ErrDocumentNotFound)
	}
	return nil
}

// Get returns the tracked record of a document.
func (s *StatusStore) Get(ctx context.Context, docID string) (*ingestion.DocumentRecord, error) {
	var rec ingestion.DocumentRecord
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT id, title, content_hash, content_size, shard_id, status FROM documents WHERE id = $1`,
		docID,
	).Scan(&rec.DocumentID, &rec.Title, &rec.ContentHash, &rec.ContentSize, &rec.ShardID, &rec.Status)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, 404, "document %s is not tracked", docID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying document %s: %w", docID, err)
	}
	return &rec, nil
}
