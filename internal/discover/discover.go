// Package discover queries the target site's search surface and normalizes
// results into postings. Best-effort by design: a page that never renders a
// listing container yields an empty batch, never an error.
package discover

import (
	"context"
	"log"
	"time"

	"github.com/Affan1415/auto-apply/internal/browser"
	"github.com/Affan1415/auto-apply/internal/domain"
)

// Browser is the slice of the navigator discovery needs. *browser.Session
// satisfies it.
type Browser interface {
	Navigate(url string) error
	WaitAnyVisible(selectors []string, timeout time.Duration) (string, browser.Element, error)
	PageSource() (string, error)
}

type Params struct {
	Query    string
	Location string
	Max      int
}

type Stage struct {
	browser Browser
	baseURL string
}

func New(b Browser, baseURL string) *Stage {
	return &Stage{browser: b, baseURL: baseURL}
}

const containerWait = 8 * time.Second

// Discover runs one search pass and returns deduplicated postings, capped
// at p.Max (dedup first, then cap).
func (s *Stage) Discover(ctx context.Context, p Params) []domain.Posting {
	if p.Max <= 0 {
		p.Max = 10
	}

	searchURL := BuildSearchURL(s.baseURL, p.Query, p.Location)
	log.Printf("[discover] search %s", searchURL)

	if err := s.browser.Navigate(searchURL); err != nil {
		log.Printf("[discover] navigate: %v", err)
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	if sel, _, err := s.browser.WaitAnyVisible(containerSelectors, containerWait); err != nil {
		log.Printf("[discover] no listing container appeared: %v", err)
		return nil
	} else {
		log.Printf("[discover] container matched %q", sel)
	}

	html, err := s.browser.PageSource()
	if err != nil {
		log.Printf("[discover] page source: %v", err)
		return nil
	}

	postings := ExtractPostings(html, s.baseURL, p.Max)
	log.Printf("[discover] extracted %d postings", len(postings))
	return postings
}
