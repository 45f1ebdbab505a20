package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Affan1415/auto-apply/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, full_name, email, phone, country, address, headline,
summary, cover_letter, desired_salary, relocation,
work_authorized, requires_sponsorship,
blacklisted_companies, blacklisted_keywords, exclude_clearance,
search_query, search_location, resume_ref, last_run_at`

func scanUser(row interface{ Scan(...any) error }) (domain.UserProfile, error) {
	var p domain.UserProfile
	var workAuth, sponsorship, clearance int
	var lastRun string
	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Country, &p.Address, &p.Headline,
		&p.Summary, &p.CoverLetter, &p.DesiredSalary, &p.Relocation,
		&workAuth, &sponsorship,
		&p.BlacklistedCompanies, &p.BlacklistedKeywords, &clearance,
		&p.SearchQuery, &p.SearchLocation, &p.ResumeRef, &lastRun,
	)
	if err != nil {
		return p, err
	}
	p.WorkAuthorized = workAuth != 0
	p.RequiresSponsorship = sponsorship != 0
	p.ExcludeClearance = clearance != 0
	if lastRun != "" {
		if t, err := time.Parse(time.RFC3339, lastRun); err == nil {
			p.LastRunAt = &t
		}
	}
	return p, nil
}

// ListEligibleUsers returns active profiles in stable id order.
func (s *Store) ListEligibleUsers(ctx context.Context) ([]domain.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE active = 1
ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserProfile
	for rows.Next() {
		p, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = ?;`, id)
	p, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrUserNotFound
	}
	return p, err
}

// UpsertUser writes a profile row. Used by seeding and tests; the engine
// itself only reads profiles.
func (s *Store) UpsertUser(ctx context.Context, p domain.UserProfile) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("user id is required")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (
  id, full_name, email, phone, country, address, headline,
  summary, cover_letter, desired_salary, relocation,
  work_authorized, requires_sponsorship,
  blacklisted_companies, blacklisted_keywords, exclude_clearance,
  search_query, search_location, resume_ref
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  full_name=excluded.full_name, email=excluded.email, phone=excluded.phone,
  country=excluded.country, address=excluded.address, headline=excluded.headline,
  summary=excluded.summary, cover_letter=excluded.cover_letter,
  desired_salary=excluded.desired_salary, relocation=excluded.relocation,
  work_authorized=excluded.work_authorized,
  requires_sponsorship=excluded.requires_sponsorship,
  blacklisted_companies=excluded.blacklisted_companies,
  blacklisted_keywords=excluded.blacklisted_keywords,
  exclude_clearance=excluded.exclude_clearance,
  search_query=excluded.search_query, search_location=excluded.search_location,
  resume_ref=excluded.resume_ref;`,
		p.ID, p.FullName, p.Email, p.Phone, p.Country, p.Address, p.Headline,
		p.Summary, p.CoverLetter, p.DesiredSalary, p.Relocation,
		boolInt(p.WorkAuthorized), boolInt(p.RequiresSponsorship),
		p.BlacklistedCompanies, p.BlacklistedKeywords, boolInt(p.ExcludeClearance),
		p.SearchQuery, p.SearchLocation, p.ResumeRef,
	)
	return err
}

func (s *Store) UpdateLastRun(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE users SET last_run_at = ? WHERE id = ?;`,
		time.Now().UTC().Format(time.RFC3339), userID)
	return err
}

// GetStructuredResume returns the user's structured resume data, or nil when
// none is stored.
func (s *Store) GetStructuredResume(ctx context.Context, userID string) (*domain.ResumeData, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT resume_json FROM users WHERE id = ?;`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var rd domain.ResumeData
	if err := json.Unmarshal([]byte(raw), &rd); err != nil {
		return nil, err
	}
	return &rd, nil
}

// SetStructuredResume stores the structured resume JSON for a user.
func (s *Store) SetStructuredResume(ctx context.Context, userID string, rd domain.ResumeData) error {
	b, err := json.Marshal(rd)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE users SET resume_json = ? WHERE id = ?;`, string(b), userID)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
