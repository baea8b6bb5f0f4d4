// Package query derives bounded, deduplicated web search queries from
// canonical claims. Rule order is a precision trade-off: numeric
// anchors and subject+location disambiguate better than generic
// keyword joins, so they come first.
package query

import (
	"regexp"
	"strings"

	"github.com/crediblehq/credible/internal/normalize"
)

const (
	maxQueries = 3
	minWords   = 2
	maxWords   = 6
)

// numericFragment matches digits with optional thousands separators,
// decimals or a percent sign, optionally followed by a unit word.
var numericFragment = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?%?(?:\s+[A-Za-z]+)?`)

// BuildQueries derives up to three search queries from a canonical
// claim, optionally prefixed with a caller-supplied context hint.
// A degenerate all-null claim yields an empty list; a malformed claim
// string returns normalize.ErrMalformedClaim.
func BuildQueries(canonicalClaim, context string) ([]string, error) {
	fields, err := normalize.ParseCanonicalClaim(canonicalClaim)
	if err != nil {
		return nil, err
	}

	subject := words(fields.Subject)
	object := words(fields.Object)
	location := words(fields.Location)
	predicate := words(fields.Predicate)
	timeRef := words(fields.Time)
	source := words(fields.Source)

	var candidates []string

	if subject != "" {
		// Numeric facts are the highest-value search anchor
		if fragment := numericFragment.FindString(object); fragment != "" {
			candidates = append(candidates, subject+" "+fragment)
		} else if object != "" {
			candidates = append(candidates, subject+" "+firstWords(object, 3))
		}

		if location != "" && !strings.Contains(strings.ToLower(subject), strings.ToLower(location)) {
			candidates = append(candidates, subject+" "+location)
		}

		if stripped := stripCopula(predicate); len(stripped) > 2 {
			candidates = append(candidates, subject+" "+stripped)
		}
	} else {
		// Subject absent: fall back to whatever fields remain. When that
		// join cannot survive the word bounds, fall back further to the
		// whole claim string so a one-field claim still gets a search.
		if parts := joinNonEmpty(predicate, object, timeRef, location, source); parts != "" {
			if !wordCountOK(parts) {
				parts = words(strings.ReplaceAll(canonicalClaim, normalize.Separator, " "))
			}
			candidates = append(candidates, parts)
		}
	}

	if context != "" {
		for i, q := range candidates {
			candidates[i] = context + " " + q
		}
	}

	return filter(candidates), nil
}

// words renders a canonical field for searching: underscores as spaces
func words(field string) string {
	return strings.TrimSpace(strings.ReplaceAll(field, "_", " "))
}

func firstWords(s string, n int) string {
	parts := strings.Fields(s)
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.Join(parts, " ")
}

// stripCopula drops leading copulas so "be announce" searches as
// "announce"
func stripCopula(predicate string) string {
	for _, prefix := range []string{"be ", "is "} {
		if strings.HasPrefix(predicate, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(predicate, prefix))
		}
	}
	return predicate
}

func wordCountOK(q string) bool {
	n := len(strings.Fields(q))
	return n >= minWords && n <= maxWords
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// filter drops empties, out-of-bounds word counts and case-insensitive
// duplicates, then truncates to the first three in priority order.
func filter(candidates []string) []string {
	queries := make([]string, 0, maxQueries)
	seen := make(map[string]bool)

	for _, q := range candidates {
		q = strings.TrimSpace(q)
		if q == "" || !wordCountOK(q) {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, q)
		if len(queries) == maxQueries {
			break
		}
	}

	return queries
}
