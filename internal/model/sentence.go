package model

// Label classifies the role a sentence plays in a news article
type Label string

const (
	LabelFactClaim  Label = "FACT_CLAIM" // Verifiable factual statement
	LabelOpinion    Label = "OPINION"    // Judgment, belief, recommendation
	LabelEmotional  Label = "EMOTIONAL"  // Sensational or emotionally loaded
	LabelContext    Label = "CONTEXT"    // Background or descriptive info
	LabelStructural Label = "STRUCTURAL" // BREAKING, UPDATE, headline marker
)

// Labels lists every recognized sentence label
var Labels = []Label{
	LabelFactClaim,
	LabelOpinion,
	LabelEmotional,
	LabelContext,
	LabelStructural,
}

// SentenceRecord is one segmented sentence with position metadata.
// IDs are assigned monotonically within a single pipeline run; the
// label is set once by classification and never changed afterward.
type SentenceRecord struct {
	ID             int    `json:"sentence_id"`
	Text           string `json:"text"`
	ParagraphIndex int    `json:"paragraph_index"`
	CharStart      int    `json:"char_start"` // Offset into the normalized source text
	CharEnd        int    `json:"char_end"`
	ContainsQuote  bool   `json:"contains_quote"`
	Label          Label  `json:"label,omitempty"` // Empty until classified
}
