package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crediblehq/credible/internal/model"
)

// Renderer writes reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document with claims
// grouped by status
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Claim Report: %s\n\n", report.Subject)
	if report.SourceURL != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", report.SourceURL)
	}
	fmt.Fprintf(&b, "Analyzed: %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04 UTC"))

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Status | Count |\n|---|---|\n")
	for _, status := range model.Statuses {
		fmt.Fprintf(&b, "| %s | %d |\n", status, report.Summary[status])
	}
	fmt.Fprintf(&b, "\n")

	for _, status := range model.Statuses {
		claims := claimsWithStatus(report.Claims, status)
		if len(claims) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s claims\n\n", capitalize(string(status)))
		for _, claim := range claims {
			renderClaim(&b, claim)
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated by credible. Verdicts describe evidence support, not truth.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func renderClaim(b *strings.Builder, claim model.ClaimRecord) {
	fmt.Fprintf(b, "### `%s`\n\n", claim.CanonicalClaim)
	for _, occ := range claim.Occurrences {
		fmt.Fprintf(b, "- sentence %d (paragraph %d): %q\n", occ.SentenceID, occ.ParagraphIndex, occ.OriginalSentence)
	}

	v := claim.Verification
	if !v.Pending() {
		fmt.Fprintf(b, "\nVerdict: **%s**", v.Verdict)
		if v.Confidence != nil {
			fmt.Fprintf(b, " (confidence %.2f)", *v.Confidence)
		}
		fmt.Fprintf(b, "\n\n")
		if v.Reasoning != "" {
			fmt.Fprintf(b, "%s\n\n", v.Reasoning)
		}
		for _, src := range v.EvidenceSources {
			fmt.Fprintf(b, "- %s\n", src)
		}
	}
	fmt.Fprintf(b, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func claimsWithStatus(claims []model.ClaimRecord, status model.RecordStatus) []model.ClaimRecord {
	var out []model.ClaimRecord
	for _, c := range claims {
		if model.StatusForVerdict(c.Verification.Verdict) == status {
			out = append(out, c)
		}
	}
	return out
}

// RenderSummary prints a short terminal summary
func (r *Renderer) RenderSummary(report *model.Report, w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", report.Subject)
	fmt.Fprintf(w, "Sentences: %d", len(report.Sentences))
	if report.Skipped > 0 {
		fmt.Fprintf(w, " (%d skipped)", report.Skipped)
	}
	fmt.Fprintf(w, "  Unique claims: %d\n", len(report.Claims))
	for _, status := range model.Statuses {
		if count := report.Summary[status]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", status, count)
		}
	}
}
