package model

import "time"

// ExtractedFields holds the six structured slots pulled out of a
// FACT_CLAIM sentence. An empty string means the field is absent; the
// canonical form renders absent fields as the literal "null".
type ExtractedFields struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Time      string `json:"time"`
	Location  string `json:"location"`
	Source    string `json:"source"`
}

// ClaimInput is one normalized observation of a claim, the unit the
// store consumes. Two sentences producing the same CanonicalClaim are
// the same real-world claim regardless of surface wording.
type ClaimInput struct {
	CanonicalClaim   string `json:"canonical_claim"`
	SentenceID       int    `json:"sentence_id"`
	ParagraphIndex   int    `json:"paragraph_index"`
	OriginalSentence string `json:"original_sentence"`
}

// Occurrence records one observed sentence instance of a claim
type Occurrence struct {
	SentenceID       int    `json:"sentence_id"`
	ParagraphIndex   int    `json:"paragraph_index"`
	OriginalSentence string `json:"original_sentence"`
}

// Verification is the verdict block attached to a claim record. The
// Verdict zero value (VerdictPending) is the sole definition of an
// unverified claim.
type Verification struct {
	Verdict         Verdict    `json:"verdict,omitempty"`
	Confidence      *float64   `json:"confidence,omitempty"`
	Reasoning       string     `json:"reasoning,omitempty"`
	EvidenceSources []string   `json:"evidence_sources"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
}

// Pending reports whether the claim has not received a verdict yet
func (v Verification) Pending() bool {
	return v.Verdict == VerdictPending
}

// ClaimRecord is the store's unit of storage: one unique canonical
// claim with every observed occurrence and its verification state.
// Occurrences is append-only and never empty once the record exists.
type ClaimRecord struct {
	CanonicalClaim string       `json:"canonical_claim"`
	Occurrences    []Occurrence `json:"occurrences"`
	Verification   Verification `json:"verification"`
}
