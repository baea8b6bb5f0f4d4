package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/crediblehq/credible/internal/model"
	"github.com/crediblehq/credible/internal/normalize"
	"github.com/crediblehq/credible/internal/store"
)

// ruleClassifier labels sentences by simple content rules so pipeline
// tests run without an LLM
type ruleClassifier struct{}

func (ruleClassifier) Label(ctx context.Context, sentence string) (model.Label, error) {
	switch {
	case strings.HasPrefix(sentence, "BREAKING:"):
		return model.LabelStructural, nil
	case strings.Contains(sentence, "grew by"):
		return model.LabelFactClaim, nil
	case strings.Contains(sentence, "should"):
		return model.LabelOpinion, nil
	default:
		return model.LabelContext, nil
	}
}

// keywordExtractor returns fixed fields for growth sentences
type keywordExtractor struct {
	err error
}

func (e keywordExtractor) Extract(ctx context.Context, sentence string) (model.ExtractedFields, error) {
	if e.err != nil {
		return model.ExtractedFields{}, e.err
	}
	return model.ExtractedFields{
		Subject:   "finance_minister",
		Predicate: "state",
		Object:    "economy_grew_by_7.2%",
		Time:      "last_year",
	}, nil
}

func TestRun_EndToEnd(t *testing.T) {
	text := "The economy grew by 7.2% last year. Taxes should be lower.\n\n" +
		"Officials repeated that the economy grew by 7.2% in the same period."

	s := store.New()
	p := New(ruleClassifier{}, normalize.New(keywordExtractor{}), s, 3)

	res, err := p.Run(context.Background(), text)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d", len(res.Sentences))
	}
	for _, rec := range res.Sentences {
		if rec.Label == "" {
			t.Errorf("sentence %d left unlabeled", rec.ID)
		}
	}

	// Both growth sentences normalize identically and must merge
	if len(res.Claims) != 1 {
		t.Fatalf("expected 1 deduplicated claim, got %d", len(res.Claims))
	}
	if len(res.Claims[0].Occurrences) != 2 {
		t.Errorf("expected 2 occurrences, got %d", len(res.Claims[0].Occurrences))
	}
	if !res.Claims[0].Verification.Pending() {
		t.Error("new claim should be pending")
	}
	if res.Skipped != 0 {
		t.Errorf("unexpected skips: %d", res.Skipped)
	}
}

func TestRun_ExtractionFailureSkipsSentenceOnly(t *testing.T) {
	text := "The economy grew by 7.2% last year. Background context sentence here."

	s := store.New()
	p := New(ruleClassifier{}, normalize.New(keywordExtractor{err: errors.New("llm down")}), s, 2)

	res, err := p.Run(context.Background(), text)
	if err != nil {
		t.Fatalf("Run must not fail on per-sentence extraction errors: %v", err)
	}
	if res.Skipped != 1 {
		t.Errorf("expected 1 skipped sentence, got %d", res.Skipped)
	}
	if len(res.Claims) != 0 {
		t.Errorf("failed extraction must not register claims: %#v", res.Claims)
	}
	if len(res.Sentences) != 2 {
		t.Errorf("non-claim sentences must survive: got %d", len(res.Sentences))
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := store.New()
	p := New(ruleClassifier{}, normalize.New(keywordExtractor{}), s, 1)

	if _, err := p.Run(ctx, "The economy grew by 7.2% last year."); err == nil {
		t.Error("expected error from cancelled run")
	}
}

func TestBuildReport(t *testing.T) {
	s := store.New()
	p := New(ruleClassifier{}, normalize.New(keywordExtractor{}), s, 1)

	res, err := p.Run(context.Background(), "The economy grew by 7.2% last year.")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	report := p.BuildReport("economy report", "https://example.com/article", res)

	if report.Subject != "economy report" || report.SourceURL != "https://example.com/article" {
		t.Errorf("report metadata wrong: %#v", report)
	}
	if report.AnalyzedAt.IsZero() {
		t.Error("AnalyzedAt not stamped")
	}

	total := 0
	for _, count := range report.Summary {
		total += count
	}
	if total != len(report.Claims) {
		t.Errorf("summary counts sum to %d, want %d", total, len(report.Claims))
	}
	if report.Summary[model.StatusPending] != 1 {
		t.Errorf("expected 1 pending claim in summary: %#v", report.Summary)
	}
}
