package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crediblehq/credible/internal/model"
)

const synthesizeSystemPrompt = "You are a professional fact-checker."

const synthesizePromptTemplate = `Claim:
"%s"

Search Evidence:
%s

Rules:
- Use ONLY the provided evidence, never outside knowledge
- If evidence clearly supports the claim: VERIFIED
- If evidence contradicts the claim: FALSE
- If evidence partially supports the claim: PARTIALLY_VERIFIED
- If evidence is insufficient or unclear: UNVERIFIABLE
- Do NOT infer or guess

Return ONLY valid JSON in this exact format:
{
    "verdict": "VERIFIED",
    "confidence": 0.95,
    "reasoning": "Your reasoning here (2-3 sentences)",
    "evidence_sources": ["url1", "url2"]
}`

// VerdictSynthesizer turns gathered evidence into a verification
// verdict. A malformed response is retried once before failing.
type VerdictSynthesizer struct {
	client Client
}

// NewVerdictSynthesizer creates a verdict synthesizer
func NewVerdictSynthesizer(client Client) *VerdictSynthesizer {
	return &VerdictSynthesizer{client: client}
}

// Synthesize evaluates the claim against the evidence block
func (s *VerdictSynthesizer) Synthesize(ctx context.Context, claim, evidence string) (*model.SynthesisResult, error) {
	prompt := fmt.Sprintf(synthesizePromptTemplate, claim, evidence)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := s.client.Complete(ctx, synthesizeSystemPrompt, prompt)
		if err != nil {
			return nil, fmt.Errorf("synthesize verdict: %w", err)
		}

		result, err := parseSynthesis(resp)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("synthesize verdict: %w", lastErr)
}

func parseSynthesis(resp string) (*model.SynthesisResult, error) {
	raw := extractJSON(resp)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var result model.SynthesisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if !result.Verdict.Terminal() {
		return nil, fmt.Errorf("unrecognized verdict %q", result.Verdict)
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	if result.EvidenceSources == nil {
		result.EvidenceSources = []string{}
	}

	return &result, nil
}
