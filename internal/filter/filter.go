// Package filter applies user exclusion rules to discovered postings.
// Pure functions, no I/O.
package filter

import (
	"strings"

	"github.com/Affan1415/auto-apply/internal/domain"
)

// Rules are the per-user exclusion predicates. Any single match excludes a
// posting; the order of checks never changes the result.
type Rules struct {
	BlockedEmployers []string
	BlockedKeywords  []string
	ExcludeClearance bool
}

// clearanceWords is the fixed clearance-requirement keyword set.
var clearanceWords = []string{
	"security clearance", "top secret", "ts/sci", "ts-sci",
	"secret clearance", "polygraph", "public trust",
}

// FromProfile parses the profile's comma-separated blacklists into Rules.
func FromProfile(p domain.UserProfile) Rules {
	return Rules{
		BlockedEmployers: splitList(p.BlacklistedCompanies),
		BlockedKeywords:  splitList(p.BlacklistedKeywords),
		ExcludeClearance: p.ExcludeClearance,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Eligible returns the postings r does not exclude, preserving order.
func Eligible(postings []domain.Posting, r Rules) []domain.Posting {
	var out []domain.Posting
	for _, p := range postings {
		if keep, _ := Check(p, r); keep {
			out = append(out, p)
		}
	}
	return out
}

// Check reports whether p passes, and the reason when it does not.
func Check(p domain.Posting, r Rules) (keep bool, reason string) {
	employer := strings.ToLower(p.Employer)
	for _, b := range r.BlockedEmployers {
		if strings.Contains(employer, strings.ToLower(b)) {
			return false, "blacklisted_employer"
		}
	}

	text := strings.ToLower(p.Title + " " + p.Employer + " " + p.Description)
	for _, kw := range r.BlockedKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return false, "blacklisted_keyword"
		}
	}

	if r.ExcludeClearance {
		for _, kw := range clearanceWords {
			if strings.Contains(text, kw) {
				return false, "clearance_required"
			}
		}
	}

	return true, ""
}
