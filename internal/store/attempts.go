package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Affan1415/auto-apply/internal/domain"
)

// HasPriorApplied reports whether the ledger already holds an `applied`
// outcome for (userID, url). Earlier error/skipped records do not count —
// those postings may be re-attempted on a later run.
func (s *Store) HasPriorApplied(ctx context.Context, userID, url string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(1) FROM attempts
WHERE user_id = ? AND url = ? AND outcome = 'applied';`, userID, url).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AppendAttempt persists one terminal outcome. The partial unique index on
// (user_id, url) for outcome='applied' backs the no-double-submission
// invariant even if a caller skips the duplicate check.
func (s *Store) AppendAttempt(ctx context.Context, rec domain.AttemptRecord) (domain.AttemptRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.UserID == "" || rec.URL == "" {
		return rec, fmt.Errorf("attempt record missing user_id or url")
	}
	if rec.Outcome == "" {
		return rec, fmt.Errorf("attempt record missing outcome")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO attempts (id, user_id, url, title, employer, outcome, note, error_detail, created_at)
VALUES (?,?,?,?,?,?,?,?,?);`,
		rec.ID, rec.UserID, rec.URL, rec.Title, rec.Employer,
		string(rec.Outcome), rec.Note, rec.ErrorDetail,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		var serr *sqlite.Error
		if rec.Outcome == domain.OutcomeApplied && errors.As(err, &serr) &&
			serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return rec, fmt.Errorf("applied record already exists for (%s, %s): %w", rec.UserID, rec.URL, err)
		}
		return rec, err
	}
	return rec, nil
}

// RecentAttempts lists the newest ledger rows, for the status surface.
func (s *Store) RecentAttempts(ctx context.Context, limit int) ([]domain.AttemptRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, url, title, employer, outcome, note, error_detail, created_at
FROM attempts
ORDER BY created_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AttemptRecord
	for rows.Next() {
		var rec domain.AttemptRecord
		var outcome, created string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.URL, &rec.Title, &rec.Employer,
			&outcome, &rec.Note, &rec.ErrorDetail, &created); err != nil {
			return nil, err
		}
		rec.Outcome = domain.Outcome(outcome)
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}
