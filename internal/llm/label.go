package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/crediblehq/credible/internal/model"
)

const labelSystemPrompt = "You are classifying sentences from a news article."

const labelPromptTemplate = `Label the sentence as ONE of:
- FACT_CLAIM (verifiable factual statement)
- OPINION (judgment, belief, recommendation)
- EMOTIONAL (sensational or emotionally loaded)
- CONTEXT (background or descriptive info)
- STRUCTURAL (BREAKING, UPDATE, headline marker)

Sentence:
"%s"

Return ONLY the label.`

// Labeler assigns one of the five sentence labels via the LLM
type Labeler struct {
	client Client
}

// NewLabeler creates a sentence labeler
func NewLabeler(client Client) *Labeler {
	return &Labeler{client: client}
}

// Label classifies one sentence. Transport failures are returned as
// errors; unrecognized model output degrades to CONTEXT so a chatty
// response never blocks the pipeline.
func (l *Labeler) Label(ctx context.Context, sentence string) (model.Label, error) {
	resp, err := l.client.Complete(ctx, labelSystemPrompt, fmt.Sprintf(labelPromptTemplate, sentence))
	if err != nil {
		return "", fmt.Errorf("label sentence: %w", err)
	}
	return parseLabel(resp), nil
}

func parseLabel(resp string) model.Label {
	normalized := strings.ToUpper(strings.TrimSpace(resp))
	for _, label := range model.Labels {
		if normalized == string(label) {
			return label
		}
	}
	// Look for an embedded label before giving up
	for _, label := range model.Labels {
		if strings.Contains(normalized, string(label)) {
			return label
		}
	}
	return model.LabelContext
}
