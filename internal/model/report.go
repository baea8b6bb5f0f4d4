package model

import "time"

// Report is the complete analysis output for one document
type Report struct {
	Subject    string    `json:"subject"`
	SourceURL  string    `json:"source_url,omitempty"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	Sentences []SentenceRecord `json:"sentences"`
	Claims    []ClaimRecord    `json:"claims"`

	// Skipped counts sentences dropped by classification or extraction
	// failures; they never abort the run.
	Skipped int `json:"skipped_sentences,omitempty"`

	Summary map[RecordStatus]int `json:"summary"`
}
