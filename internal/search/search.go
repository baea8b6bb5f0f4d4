// Package search defines the web search collaborator and the evidence
// formatting the verdict synthesizer consumes.
package search

import (
	"context"
	"fmt"
	"strings"
)

// Result is one ranked evidence snippet from a web search
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider is the search collaborator. Empty results are a valid
// outcome (empty slice, nil error); language/region filtering and
// retry policy live behind this interface, not in the verifier.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// DedupByURL keeps the first occurrence of each URL, preserving rank
// order across queries
func DedupByURL(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	var unique []Result
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		unique = append(unique, r)
	}
	return unique
}

// FormatEvidence renders results as the numbered evidence block passed
// to verdict synthesis
func FormatEvidence(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("%d. %s\n   %s\n   URL: %s", i+1, r.Title, r.Snippet, r.URL))
	}
	return strings.Join(blocks, "\n\n")
}

// SourceURLs lists the result URLs in rank order
func SourceURLs(results []Result) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls
}
