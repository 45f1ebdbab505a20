package domain

import "time"

// Posting is one job listing discovered on the target site.
// URL is the natural key; postings are never mutated after discovery.
type Posting struct {
	Title       string
	Employer    string
	Location    string
	URL         string
	Description string
}

// Outcome is the terminal classification of one application attempt.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeError     Outcome = "error"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeDuplicate Outcome = "duplicate"
)

// AttemptRecord is the append-only ledger row for one (user, posting) attempt.
// At most one record with OutcomeApplied may ever exist per (UserID, URL).
type AttemptRecord struct {
	ID          string
	UserID      string
	URL         string
	Title       string
	Employer    string
	Outcome     Outcome
	Note        string
	ErrorDetail string
	CreatedAt   time.Time
}
