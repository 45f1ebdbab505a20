package discover

import (
	"net/url"
	"sort"
	"strings"
)

// BuildSearchURL composes the target site's search URL for a query and
// location.
func BuildSearchURL(base, query, location string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("q", strings.TrimSpace(query))
	if loc := strings.TrimSpace(location); loc != "" {
		q.Set("location", loc)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// CanonicalURL normalizes a posting URL for dedup: lowercased scheme/host,
// no fragment, tracking params stripped, deterministic query order.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}
