package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crediblehq/credible/internal/model"
)

const extractSystemPrompt = "You extract structured fields from factual news claims."

const extractPromptTemplate = `Extract the factual claim into the following structured fields:
- subject: main entity performing the action (lowercase, singular, snake_case)
- predicate: lemmatized verb describing the action (snake_case)
- object: value or entity affected by the action (preserve numbers exactly)
- time: time reference if present (e.g. last_year, 2023)
- location: geographical location if present (lowercase snake_case)
- source: who made the claim, person or organization (snake_case)

Rules:
- Do NOT paraphrase creatively
- Use lemmatized verbs
- Use snake_case
- Use null if information is missing
- Preserve numbers exactly
- Do NOT infer missing facts

Sentence:
"%s"

Return ONLY a JSON object with exactly these keys:
{"subject": ..., "predicate": ..., "object": ..., "time": ..., "location": ..., "source": ...}`

// FieldExtractor pulls the six structured claim fields from a
// FACT_CLAIM sentence via the LLM
type FieldExtractor struct {
	client Client
}

// NewFieldExtractor creates a field extractor
func NewFieldExtractor(client Client) *FieldExtractor {
	return &FieldExtractor{client: client}
}

// Extract returns the structured fields for a sentence. JSON null and
// missing keys both map to the empty string (absent field).
func (e *FieldExtractor) Extract(ctx context.Context, sentence string) (model.ExtractedFields, error) {
	resp, err := e.client.Complete(ctx, extractSystemPrompt, fmt.Sprintf(extractPromptTemplate, sentence))
	if err != nil {
		return model.ExtractedFields{}, fmt.Errorf("extract fields: %w", err)
	}

	raw := extractJSON(resp)
	if raw == "" {
		return model.ExtractedFields{}, fmt.Errorf("extract fields: no JSON object in response")
	}

	var parsed struct {
		Subject   *string `json:"subject"`
		Predicate *string `json:"predicate"`
		Object    *string `json:"object"`
		Time      *string `json:"time"`
		Location  *string `json:"location"`
		Source    *string `json:"source"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return model.ExtractedFields{}, fmt.Errorf("extract fields: parse response: %w", err)
	}

	return model.ExtractedFields{
		Subject:   deref(parsed.Subject),
		Predicate: deref(parsed.Predicate),
		Object:    deref(parsed.Object),
		Time:      deref(parsed.Time),
		Location:  deref(parsed.Location),
		Source:    deref(parsed.Source),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
