package model

// Verdict is the terminal classification of a claim's truth status.
// The zero value marks a claim still awaiting verification.
type Verdict string

const (
	VerdictPending           Verdict = ""
	VerdictVerified          Verdict = "VERIFIED"
	VerdictFalse             Verdict = "FALSE"
	VerdictPartiallyVerified Verdict = "PARTIALLY_VERIFIED"
	VerdictUnverifiable      Verdict = "UNVERIFIABLE"
)

// Terminal reports whether v is one of the four terminal verdicts
func (v Verdict) Terminal() bool {
	switch v {
	case VerdictVerified, VerdictFalse, VerdictPartiallyVerified, VerdictUnverifiable:
		return true
	default:
		return false
	}
}

// RecordStatus is the vocabulary used by reporting and summaries. It is
// deliberately distinct from Verdict so that downstream consumers never
// depend on the raw synthesis output strings.
type RecordStatus string

const (
	StatusPending      RecordStatus = "pending"
	StatusVerified     RecordStatus = "verified"
	StatusFalse        RecordStatus = "false"
	StatusPartial      RecordStatus = "partial"
	StatusUnverifiable RecordStatus = "unverifiable"
)

// Statuses lists every record status, in summary display order
var Statuses = []RecordStatus{
	StatusPending,
	StatusVerified,
	StatusFalse,
	StatusPartial,
	StatusUnverifiable,
}

// StatusForVerdict maps a verdict to its record status. The mapping is
// total: every Verdict value, including unknown strings, has a status
// (unknown values count as pending so they are never silently dropped
// from summaries).
func StatusForVerdict(v Verdict) RecordStatus {
	switch v {
	case VerdictVerified:
		return StatusVerified
	case VerdictFalse:
		return StatusFalse
	case VerdictPartiallyVerified:
		return StatusPartial
	case VerdictUnverifiable:
		return StatusUnverifiable
	default:
		return StatusPending
	}
}

// SynthesisResult is the structured output of the verdict-synthesis
// collaborator: exactly one terminal verdict, a confidence in [0,1], a
// short reasoning string and the supporting source URLs.
type SynthesisResult struct {
	Verdict         Verdict  `json:"verdict"`
	Confidence      float64  `json:"confidence"`
	Reasoning       string   `json:"reasoning"`
	EvidenceSources []string `json:"evidence_sources"`
}
