package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/crediblehq/credible/internal/model"
)

// fakeClient returns canned responses in order, then repeats the last
type fakeClient struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeClient) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func TestLabeler_ParsesLabel(t *testing.T) {
	cases := []struct {
		resp string
		want model.Label
	}{
		{"FACT_CLAIM", model.LabelFactClaim},
		{"  opinion\n", model.LabelOpinion},
		{"Label: STRUCTURAL", model.LabelStructural},
		{"something unexpected", model.LabelContext},
	}

	for _, tc := range cases {
		labeler := NewLabeler(&fakeClient{responses: []string{tc.resp}})
		got, err := labeler.Label(context.Background(), "A sentence.")
		if err != nil {
			t.Fatalf("Label(%q): %v", tc.resp, err)
		}
		if got != tc.want {
			t.Errorf("Label(%q) = %q, want %q", tc.resp, got, tc.want)
		}
	}
}

func TestLabeler_TransportError(t *testing.T) {
	labeler := NewLabeler(&fakeClient{err: errors.New("api down")})
	if _, err := labeler.Label(context.Background(), "A sentence."); err == nil {
		t.Error("expected error from failing client")
	}
}

func TestFieldExtractor_ParsesFields(t *testing.T) {
	resp := "```json\n" + `{"subject": "finance_minister", "predicate": "state", "object": "economy_grew_by_7.2%", "time": "last_year", "location": null, "source": null}` + "\n```"
	extractor := NewFieldExtractor(&fakeClient{responses: []string{resp}})

	fields, err := extractor.Extract(context.Background(), "The finance minister said the economy grew by 7.2% last year.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if fields.Subject != "finance_minister" || fields.Predicate != "state" {
		t.Errorf("unexpected fields: %#v", fields)
	}
	if fields.Object != "economy_grew_by_7.2%" || fields.Time != "last_year" {
		t.Errorf("unexpected fields: %#v", fields)
	}
	if fields.Location != "" || fields.Source != "" {
		t.Errorf("null fields should be empty strings: %#v", fields)
	}
}

func TestFieldExtractor_MalformedResponse(t *testing.T) {
	extractor := NewFieldExtractor(&fakeClient{responses: []string{"I cannot do that."}})
	if _, err := extractor.Extract(context.Background(), "Sentence."); err == nil {
		t.Error("expected error for response without JSON")
	}
}

func TestVerdictSynthesizer_Success(t *testing.T) {
	resp := `{"verdict": "VERIFIED", "confidence": 0.9, "reasoning": "Matches the report.", "evidence_sources": ["https://example.com/a"]}`
	synth := NewVerdictSynthesizer(&fakeClient{responses: []string{resp}})

	result, err := synth.Synthesize(context.Background(), "claim", "evidence")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.Verdict != model.VerdictVerified || result.Confidence != 0.9 {
		t.Errorf("unexpected result: %#v", result)
	}
}

func TestVerdictSynthesizer_RetriesOnceOnMalformed(t *testing.T) {
	client := &fakeClient{responses: []string{
		"not json at all",
		`{"verdict": "FALSE", "confidence": 0.8, "reasoning": "Contradicted.", "evidence_sources": []}`,
	}}
	synth := NewVerdictSynthesizer(client)

	result, err := synth.Synthesize(context.Background(), "claim", "evidence")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", client.calls)
	}
	if result.Verdict != model.VerdictFalse {
		t.Errorf("unexpected verdict: %q", result.Verdict)
	}
}

func TestVerdictSynthesizer_GivesUpAfterRetry(t *testing.T) {
	client := &fakeClient{responses: []string{"garbage", "still garbage"}}
	synth := NewVerdictSynthesizer(client)

	if _, err := synth.Synthesize(context.Background(), "claim", "evidence"); err == nil {
		t.Error("expected error after two malformed responses")
	}
	if client.calls != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", client.calls)
	}
}

func TestVerdictSynthesizer_RejectsUnknownVerdict(t *testing.T) {
	resp := `{"verdict": "MISLEADING", "confidence": 0.5, "reasoning": "?", "evidence_sources": []}`
	synth := NewVerdictSynthesizer(&fakeClient{responses: []string{resp}})

	if _, err := synth.Synthesize(context.Background(), "claim", "evidence"); err == nil {
		t.Error("expected error for verdict outside the taxonomy")
	}
}

func TestVerdictSynthesizer_ClampsConfidence(t *testing.T) {
	resp := `{"verdict": "VERIFIED", "confidence": 1.7, "reasoning": "r", "evidence_sources": []}`
	result, err := parseSynthesis(resp)
	if err != nil {
		t.Fatalf("parseSynthesis: %v", err)
	}
	if result.Confidence != 1 {
		t.Errorf("confidence not clamped: %v", result.Confidence)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Here you go: {\"a\": 1} hope that helps", `{"a": 1}`},
		{"no object here", ""},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
