package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ziadkadry99/linkbase/internal/db"
)

// Documents provides per-user document metadata persistence.
type Documents struct {
	db *db.DB
}

// NewDocuments creates a Documents store backed by the given database.
func NewDocuments(database *db.DB) *Documents {
	return &Documents{db: database}
}

// Save inserts or updates a document for a user. Re-saving the same doc_id
// replaces the row in place so the original insertion order is kept.
func (s *Documents) Save(ctx context.Context, userID string, doc Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (user_id, doc_id, url, title, content_type, added_at, content_preview)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, doc_id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			content_type = excluded.content_type,
			added_at = excluded.added_at,
			content_preview = excluded.content_preview`,
		userID, doc.DocID, doc.URL, doc.Title, doc.ContentType, doc.AddedAt, doc.ContentPreview,
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// List returns all documents for a user in insertion order.
func (s *Documents) List(ctx context.Context, userID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, url, title, content_type, added_at, content_preview
		FROM documents WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.DocID, &d.URL, &d.Title, &d.ContentType, &d.AddedAt, &d.ContentPreview); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Get returns one document, or nil if the user has no such document.
func (s *Documents) Get(ctx context.Context, userID, docID string) (*Document, error) {
	var d Document
	err := s.db.QueryRowContext(ctx, `
		SELECT doc_id, url, title, content_type, added_at, content_preview
		FROM documents WHERE user_id = ? AND doc_id = ?`, userID, docID,
	).Scan(&d.DocID, &d.URL, &d.Title, &d.ContentType, &d.AddedAt, &d.ContentPreview)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return &d, nil
}

// Delete removes one document. It reports whether a row was deleted.
func (s *Documents) Delete(ctx context.Context, userID, docID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE user_id = ? AND doc_id = ?", userID, docID)
	if err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	return n > 0, nil
}

// Clear removes all documents for a user and returns how many were removed.
func (s *Documents) Clear(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("clearing documents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing documents: %w", err)
	}
	return int(n), nil
}

// Count returns the number of documents a user has.
func (s *Documents) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE user_id = ?", userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
