package filter_test

import (
	"testing"

	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/filter"
)

func TestCheckBlockedEmployerCaseInsensitive(t *testing.T) {
	rules := filter.Rules{BlockedEmployers: []string{"acme"}}

	p := domain.Posting{Title: "Go Developer", Employer: "ACME Corp"}
	keep, reason := filter.Check(p, rules)
	if keep {
		t.Fatalf("expected ACME Corp to be excluded")
	}
	if reason != "blacklisted_employer" {
		t.Errorf("reason = %q, want blacklisted_employer", reason)
	}
}

func TestCheckBlockedKeywordScansAllText(t *testing.T) {
	rules := filter.Rules{BlockedKeywords: []string{"on-site"}}

	cases := []struct {
		name string
		p    domain.Posting
		keep bool
	}{
		{"in title", domain.Posting{Title: "Engineer (On-Site)", Employer: "X"}, false},
		{"in description", domain.Posting{Title: "Engineer", Employer: "X", Description: "strictly ON-SITE role"}, false},
		{"absent", domain.Posting{Title: "Engineer", Employer: "X", Description: "fully remote"}, true},
	}
	for _, tc := range cases {
		keep, _ := filter.Check(tc.p, rules)
		if keep != tc.keep {
			t.Errorf("%s: keep = %v, want %v", tc.name, keep, tc.keep)
		}
	}
}

func TestCheckClearance(t *testing.T) {
	rules := filter.Rules{ExcludeClearance: true}

	p := domain.Posting{Title: "Systems Engineer", Employer: "Gov Contractor",
		Description: "Active TS/SCI required"}
	keep, reason := filter.Check(p, rules)
	if keep {
		t.Fatalf("expected clearance posting to be excluded")
	}
	if reason != "clearance_required" {
		t.Errorf("reason = %q, want clearance_required", reason)
	}

	// clearance words pass through when the rule is off
	keep, _ = filter.Check(p, filter.Rules{})
	if !keep {
		t.Errorf("clearance posting excluded with rule disabled")
	}
}

func TestEligiblePreservesOrder(t *testing.T) {
	rules := filter.Rules{BlockedEmployers: []string{"bad"}}
	in := []domain.Posting{
		{Title: "a", Employer: "Good Co", URL: "u1"},
		{Title: "b", Employer: "Bad Co", URL: "u2"},
		{Title: "c", Employer: "Fine Inc", URL: "u3"},
	}
	out := filter.Eligible(in, rules)
	if len(out) != 2 || out[0].URL != "u1" || out[1].URL != "u3" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestFromProfileParsesLists(t *testing.T) {
	p := domain.UserProfile{
		BlacklistedCompanies: " Acme , , Initech ",
		BlacklistedKeywords:  "clearance,on-site",
		ExcludeClearance:     true,
	}
	r := filter.FromProfile(p)
	if len(r.BlockedEmployers) != 2 || r.BlockedEmployers[0] != "Acme" || r.BlockedEmployers[1] != "Initech" {
		t.Errorf("employers = %v", r.BlockedEmployers)
	}
	if len(r.BlockedKeywords) != 2 {
		t.Errorf("keywords = %v", r.BlockedKeywords)
	}
	if !r.ExcludeClearance {
		t.Errorf("ExcludeClearance not carried over")
	}
}

func TestCheckEmptyRulesKeepsEverything(t *testing.T) {
	keep, reason := filter.Check(domain.Posting{Title: "x", Employer: "y"}, filter.Rules{})
	if !keep || reason != "" {
		t.Fatalf("keep = %v reason = %q, want true and empty", keep, reason)
	}
}
