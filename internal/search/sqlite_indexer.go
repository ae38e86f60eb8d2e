package search

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

const upsertSQL = `INSERT INTO documents (object_id, title, content) VALUES (?, ?, ?)
ON CONFLICT(object_id) DO UPDATE SET
	title = excluded.title,
	content = excluded.content,
	updated_at = unixepoch()`

// SQLiteIndex mirrors the hosted index into a local FTS5 database.
type SQLiteIndex struct {
	mu sync.Mutex
	db *sql.DB
}

var _ Index = (*SQLiteIndex)(nil)

func NewSQLiteIndex(path string) (*SQLiteIndex, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// SaveDocuments writes the whole batch in a single transaction.
func (s *SQLiteIndex) SaveDocuments(ctx context.Context, docs []Document) (SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(docs) == 0 {
		return SaveResult{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return SaveResult{}, fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.ObjectID == "" {
			return SaveResult{}, fmt.Errorf("document with title %q has no object id", doc.Title)
		}
		if _, err := stmt.ExecContext(ctx, doc.ObjectID, doc.Title, doc.Content); err != nil {
			return SaveResult{}, fmt.Errorf("upsert %s: %w", doc.ObjectID, err)
		}
		ids = append(ids, doc.ObjectID)
	}

	if err := tx.Commit(); err != nil {
		return SaveResult{}, fmt.Errorf("commit batch: %w", err)
	}
	return SaveResult{ObjectIDs: ids, Tasks: 1}, nil
}

func (s *SQLiteIndex) DeleteDocuments(ctx context.Context, objectIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(objectIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range objectIDs {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE object_id = ?`, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// Get returns a single mirrored document. The second return value is false
// when no document has that id.
func (s *SQLiteIndex) Get(ctx context.Context, objectID string) (Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc Document
	err := s.db.QueryRowContext(ctx,
		`SELECT object_id, title, content FROM documents WHERE object_id = ?`, objectID,
	).Scan(&doc.ObjectID, &doc.Title, &doc.Content)
	if err == sql.ErrNoRows {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("get %s: %w", objectID, err)
	}
	return doc, true, nil
}

func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
