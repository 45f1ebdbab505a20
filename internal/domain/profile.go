package domain

import (
	"strings"
	"time"
)

// UserProfile is a read-only snapshot of one user's application data for the
// duration of a run. The store owns the authoritative copy.
type UserProfile struct {
	ID       string
	FullName string
	Email    string
	Phone    string
	Country  string
	Address  string
	Headline string

	Summary       string
	CoverLetter   string
	DesiredSalary string
	Relocation    string

	WorkAuthorized      bool
	RequiresSponsorship bool

	// Comma-separated exclusion lists, kept raw as the user typed them.
	BlacklistedCompanies string
	BlacklistedKeywords  string
	ExcludeClearance     bool

	SearchQuery    string
	SearchLocation string

	ResumeRef string // document ref of the stored resume binary, if any

	LastRunAt *time.Time
}

// FirstName returns the leading token of FullName, or "" when unset.
func (p UserProfile) FirstName() string {
	parts := strings.Fields(p.FullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns everything after the first token of FullName.
func (p UserProfile) LastName() string {
	parts := strings.Fields(p.FullName)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}

// ResumeData is the structured resume used to render a document when the
// profile has no stored binary.
type ResumeData struct {
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	Headline  string             `json:"headline"`
	Summary   string             `json:"summary"`
	Skills    []string           `json:"skills"`
	Education []ResumeEducation  `json:"education"`
	History   []ResumeExperience `json:"history"`
}

type ResumeExperience struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	Period  string `json:"period"`
	Detail  string `json:"detail"`
}

type ResumeEducation struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year"`
}
