package discover

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Affan1415/auto-apply/internal/domain"
)

// The target site's markup shifts; every lookup below is an ordered list of
// candidate selectors, most specific first, and the first hit wins.

// containerSelectors locate the search-results region. Also used by the
// live wait before extraction.
var containerSelectors = []string{
	`[data-cy="search-results"]`,
	`#searchResults`,
	`.search-results`,
	`[class*="search-result"]`,
	`main`,
}

var itemSelectors = []string{
	`[data-cy="search-card"]`,
	`.card.search-card`,
	`[data-testid*="job-card"]`,
	`.job-listing`,
	`article`,
	`li[class*="result"]`,
}

var titleSelectors = []string{
	`a[data-cy="card-title-link"]`,
	`h5 a`,
	`h2 a`,
	`h3 a`,
	`.card-title`,
	`h2`,
}

var employerSelectors = []string{
	`[data-cy="search-result-company-name"]`,
	`.card-company a`,
	`[class*="company"]`,
	`.employer`,
	`h4`,
}

var locationSelectors = []string{
	`[data-cy="search-result-location"]`,
	`.search-result-location`,
	`[class*="location"]`,
	`.card-location`,
}

var linkSelectors = []string{
	`a[data-cy="card-title-link"]`,
	`h5 a[href]`,
	`h2 a[href]`,
	`a[href]`,
}

// ExtractPostings parses listing HTML into postings: container fallback,
// per-field extractor rules, canonical-URL dedup, cap at max. Returns nil
// rather than an error when nothing matches.
func ExtractPostings(html, baseURL string, max int) []domain.Posting {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, _ := url.Parse(baseURL)

	container := doc.Selection
	for _, sel := range containerSelectors {
		if c := doc.Find(sel); c.Length() > 0 {
			container = c.First()
			break
		}
	}

	var items *goquery.Selection
	for _, sel := range itemSelectors {
		if s := container.Find(sel); s.Length() > 0 {
			items = s
			break
		}
	}
	if items == nil {
		return nil
	}

	seen := map[string]bool{}
	var out []domain.Posting
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		p := domain.Posting{
			Title:    firstText(item, titleSelectors),
			Employer: firstText(item, employerSelectors),
			Location: firstText(item, locationSelectors),
			URL:      firstHref(item, linkSelectors, base),
		}
		if p.URL == "" || p.Title == "" {
			return true
		}
		p.URL = CanonicalURL(p.URL)
		if seen[p.URL] {
			return true
		}
		seen[p.URL] = true
		out = append(out, p)
		return max <= 0 || len(out) < max
	})
	return out
}

func firstText(item *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if s := item.Find(sel); s.Length() > 0 {
			if text := cleanText(s.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

func firstHref(item *goquery.Selection, selectors []string, base *url.URL) string {
	for _, sel := range selectors {
		var href string
		item.Find(sel).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			h, ok := a.Attr("href")
			if !ok || strings.TrimSpace(h) == "" {
				return true
			}
			href = strings.TrimSpace(h)
			return false
		})
		if href == "" {
			continue
		}
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				return base.ResolveReference(ref).String()
			}
		}
		return href
	}
	return ""
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
