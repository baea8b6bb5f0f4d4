package verify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/crediblehq/credible/internal/model"
	"github.com/crediblehq/credible/internal/search"
	"github.com/crediblehq/credible/internal/store"
)

const exampleClaim = "finance_minister|state|economy_grew_by_7.2%|last_year|null|null"

type fakeProvider struct {
	results []search.Result
	err     error
	calls   int32
}

func (f *fakeProvider) Search(ctx context.Context, query string) ([]search.Result, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeSynth struct {
	result *model.SynthesisResult
	err    error
	calls  int32
}

func (f *fakeSynth) Synthesize(ctx context.Context, claim, evidence string) (*model.SynthesisResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newStore(keys ...string) *store.Store {
	s := store.New()
	for i, key := range keys {
		s.AddClaim(model.ClaimInput{
			CanonicalClaim:   key,
			SentenceID:       i,
			OriginalSentence: "original sentence",
		})
	}
	return s
}

func TestVerifyAll_Success(t *testing.T) {
	s := newStore(exampleClaim)
	provider := &fakeProvider{results: []search.Result{
		{Title: "Report", URL: "https://example.com/report", Snippet: "grew by 7.2%"},
	}}
	synth := &fakeSynth{result: &model.SynthesisResult{
		Verdict:         model.VerdictVerified,
		Confidence:      0.9,
		Reasoning:       "supported by the report",
		EvidenceSources: []string{"https://example.com/report"},
	}}

	outcomes, err := New(s, provider, synth, 2).VerifyAll(context.Background())
	if err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Verdict != model.VerdictVerified {
		t.Fatalf("unexpected outcomes: %#v", outcomes)
	}

	rec, _ := s.GetClaim(exampleClaim)
	if rec.Verification.Verdict != model.VerdictVerified {
		t.Errorf("store verdict = %q", rec.Verification.Verdict)
	}
	if len(rec.Verification.EvidenceSources) != 1 {
		t.Errorf("evidence sources not recorded: %#v", rec.Verification)
	}
	if len(s.UnverifiedClaims()) != 0 {
		t.Error("claim left pending after successful pass")
	}
}

func TestVerifyAll_SearchAlwaysFails(t *testing.T) {
	s := newStore(exampleClaim)
	provider := &fakeProvider{err: errors.New("network down")}
	synth := &fakeSynth{}

	outcomes, err := New(s, provider, synth, 1).VerifyAll(context.Background())
	if err != nil {
		t.Fatalf("VerifyAll must not fail on search errors: %v", err)
	}
	if outcomes[0].Verdict != model.VerdictUnverifiable {
		t.Errorf("verdict = %q, want UNVERIFIABLE", outcomes[0].Verdict)
	}

	rec, _ := s.GetClaim(exampleClaim)
	if rec.Verification.Pending() {
		t.Fatal("claim left pending after total search failure")
	}
	if rec.Verification.Confidence == nil || *rec.Verification.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", rec.Verification.Confidence)
	}
	if len(rec.Verification.EvidenceSources) != 0 {
		t.Errorf("evidence sources should be empty: %#v", rec.Verification.EvidenceSources)
	}
	if synth.calls != 0 {
		t.Error("synthesis must not run with zero evidence")
	}
}

func TestVerifyAll_DegenerateClaim(t *testing.T) {
	s := newStore("null|null|null|null|null|null")
	provider := &fakeProvider{}
	synth := &fakeSynth{}

	outcomes, err := New(s, provider, synth, 1).VerifyAll(context.Background())
	if err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}
	if outcomes[0].Verdict != model.VerdictUnverifiable {
		t.Errorf("verdict = %q, want UNVERIFIABLE", outcomes[0].Verdict)
	}
	if provider.calls != 0 {
		t.Error("search must not run for a degenerate claim")
	}
	if synth.calls != 0 {
		t.Error("synthesis must not run for a degenerate claim")
	}
}

func TestVerifyAll_SynthesisFailure(t *testing.T) {
	s := newStore(exampleClaim)
	provider := &fakeProvider{results: []search.Result{{Title: "R", URL: "https://example.com/r", Snippet: "s"}}}
	synth := &fakeSynth{err: errors.New("malformed output")}

	outcomes, err := New(s, provider, synth, 1).VerifyAll(context.Background())
	if err != nil {
		t.Fatalf("VerifyAll must not fail on synthesis errors: %v", err)
	}
	if outcomes[0].Verdict != model.VerdictUnverifiable {
		t.Errorf("verdict = %q, want UNVERIFIABLE", outcomes[0].Verdict)
	}

	rec, _ := s.GetClaim(exampleClaim)
	if !strings.Contains(rec.Verification.Reasoning, "verification failed") {
		t.Errorf("reasoning lacks failure diagnostic: %q", rec.Verification.Reasoning)
	}
}

func TestVerifyAll_MalformedKeySurfaced(t *testing.T) {
	s := newStore("only|three|fields")

	outcomes, err := New(s, &fakeProvider{}, &fakeSynth{}, 1).VerifyAll(context.Background())
	if err == nil {
		t.Error("expected structural error for malformed canonical key")
	}
	if outcomes[0].Err == nil {
		t.Error("outcome should carry the structural error")
	}
}

func TestVerifyAll_Cancellation(t *testing.T) {
	keys := []string{
		"a|b|c|null|null|null",
		"d|e|f|null|null|null",
		"g|h|i|null|null|null",
	}
	s := newStore(keys...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{results: []search.Result{{Title: "R", URL: "https://example.com", Snippet: "s"}}}
	synth := &fakeSynth{result: &model.SynthesisResult{Verdict: model.VerdictVerified, Confidence: 1}}

	_, err := New(s, provider, synth, 1).VerifyAll(ctx)
	if err == nil {
		t.Error("expected error from cancelled batch")
	}

	// Unstarted claims stay pending and are retryable
	if len(s.UnverifiedClaims()) == 0 {
		t.Error("cancelled batch should leave unstarted claims pending")
	}
}

func TestVerifyAll_SkipsAlreadyVerified(t *testing.T) {
	s := newStore(exampleClaim, "a|b|c|null|null|null")
	_ = s.UpdateVerification(exampleClaim, model.VerdictFalse, 0.9, "already done", nil)

	provider := &fakeProvider{results: []search.Result{{Title: "R", URL: "https://example.com", Snippet: "s"}}}
	synth := &fakeSynth{result: &model.SynthesisResult{Verdict: model.VerdictVerified, Confidence: 1}}

	outcomes, err := New(s, provider, synth, 1).VerifyAll(context.Background())
	if err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome for the single pending claim, got %d", len(outcomes))
	}

	rec, _ := s.GetClaim(exampleClaim)
	if rec.Verification.Verdict != model.VerdictFalse {
		t.Error("already-verified claim must not be revisited")
	}
}

func TestVerifyClaim_Progress(t *testing.T) {
	s := newStore(exampleClaim)
	v := New(s, &fakeProvider{err: errors.New("down")}, &fakeSynth{}, 1)

	var seen []string
	v.Progress = func(canonical string) { seen = append(seen, canonical) }

	v.VerifyClaim(context.Background(), exampleClaim)
	if len(seen) != 1 || seen[0] != exampleClaim {
		t.Errorf("progress hook not invoked: %#v", seen)
	}
}
