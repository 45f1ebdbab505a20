package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// GetResumeBinary returns the stored document bytes and name for ref, or
// (nil, "", nil) when the ref is unknown or empty — a missing resume is not
// an error, the caller falls back to generation.
func (s *Store) GetResumeBinary(ctx context.Context, ref string) ([]byte, string, error) {
	if ref == "" {
		return nil, "", nil
	}
	var data []byte
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT data, name FROM documents WHERE ref = ?;`, ref).Scan(&data, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return data, name, nil
}

// StoreGeneratedDocument persists a rendered document and returns its ref.
func (s *Store) StoreGeneratedDocument(ctx context.Context, data []byte, name string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty document")
	}
	ref := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO documents (ref, name, data, created_at) VALUES (?,?,?,?);`,
		ref, name, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return ref, nil
}
