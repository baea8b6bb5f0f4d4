// Package store implements the deduplicating claim registry: one
// record per canonical claim, insertion-ordered, safe for concurrent
// writers. Pure in-memory; archival and persistence belong to callers.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crediblehq/credible/internal/model"
)

// ErrNotFound is returned when an operation targets a canonical claim
// that was never added. This indicates API misuse, not a transient
// condition.
var ErrNotFound = errors.New("claim not found")

// ErrInvalidVerdict is returned when UpdateVerification is called with
// a non-terminal verdict. Pending is only ever the initial state or the
// result of ResetVerification, never an update target.
var ErrInvalidVerdict = errors.New("verdict is not terminal")

// nowFunc is the clock used for VerifiedAt stamps (injectable for tests)
var nowFunc = time.Now

// Store is a deduplicating registry keyed by canonical claim string.
// Construct one per pipeline run (or hold it process-wide); there is no
// package-level instance.
type Store struct {
	mu     sync.Mutex
	claims map[string]*model.ClaimRecord
	order  []string // Insertion order of canonical keys
}

// New creates an empty store
func New() *Store {
	return &Store{claims: make(map[string]*model.ClaimRecord)}
}

// AddClaim registers one observation. The first observation of a
// canonical key creates a pending record; every observation appends an
// occurrence. Textually different sentences that normalize identically
// merge into one record here.
func (s *Store) AddClaim(in model.ClaimInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.claims[in.CanonicalClaim]
	if !ok {
		rec = &model.ClaimRecord{
			CanonicalClaim: in.CanonicalClaim,
			Verification: model.Verification{
				EvidenceSources: []string{},
			},
		}
		s.claims[in.CanonicalClaim] = rec
		s.order = append(s.order, in.CanonicalClaim)
	}

	rec.Occurrences = append(rec.Occurrences, model.Occurrence{
		SentenceID:       in.SentenceID,
		ParagraphIndex:   in.ParagraphIndex,
		OriginalSentence: in.OriginalSentence,
	})
}

// UpdateVerification replaces the whole verification block and stamps
// VerifiedAt. Only terminal verdicts are accepted. Re-verification is
// allowed; the stamp advances monotonically on every update.
func (s *Store) UpdateVerification(canonicalClaim string, verdict model.Verdict, confidence float64, reasoning string, evidenceSources []string) error {
	if !verdict.Terminal() {
		return fmt.Errorf("%w: %q", ErrInvalidVerdict, verdict)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.claims[canonicalClaim]
	if !ok {
		return ErrNotFound
	}

	now := nowFunc()
	if prev := rec.Verification.VerifiedAt; prev != nil && !now.After(*prev) {
		now = prev.Add(time.Nanosecond)
	}

	if evidenceSources == nil {
		evidenceSources = []string{}
	}
	conf := confidence
	rec.Verification = model.Verification{
		Verdict:         verdict,
		Confidence:      &conf,
		Reasoning:       reasoning,
		EvidenceSources: evidenceSources,
		VerifiedAt:      &now,
	}

	return nil
}

// ResetVerification returns a claim to the pending state so a later
// batch pass picks it up again. Re-verification of UNVERIFIABLE claims
// is never automatic; this is the explicit opt-in.
func (s *Store) ResetVerification(canonicalClaim string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.claims[canonicalClaim]
	if !ok {
		return ErrNotFound
	}

	rec.Verification = model.Verification{EvidenceSources: []string{}}
	return nil
}

// GetClaim returns a copy of one record
func (s *Store) GetClaim(canonicalClaim string) (model.ClaimRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.claims[canonicalClaim]
	if !ok {
		return model.ClaimRecord{}, false
	}
	return copyRecord(rec), true
}

// All returns copies of every record in insertion order
func (s *Store) All() []model.ClaimRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(*model.ClaimRecord) bool { return true })
}

// UnverifiedClaims returns the pending records (no verdict yet) in
// insertion order; batch callers rely on this ordering being stable.
func (s *Store) UnverifiedClaims() []model.ClaimRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(r *model.ClaimRecord) bool { return r.Verification.Pending() })
}

// VerifiedClaims returns records with verdict VERIFIED exactly.
// PARTIALLY_VERIFIED records are deliberately excluded.
func (s *Store) VerifiedClaims() []model.ClaimRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(r *model.ClaimRecord) bool { return r.Verification.Verdict == model.VerdictVerified })
}

// Summary returns claim counts partitioned by record status. Every
// status is present, and the counts sum to Len().
func (s *Store) Summary() map[model.RecordStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := make(map[model.RecordStatus]int, len(model.Statuses))
	for _, status := range model.Statuses {
		summary[status] = 0
	}
	for _, key := range s.order {
		summary[model.StatusForVerdict(s.claims[key].Verification.Verdict)]++
	}
	return summary
}

// Len returns the number of unique claims
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Store) collect(keep func(*model.ClaimRecord) bool) []model.ClaimRecord {
	out := make([]model.ClaimRecord, 0, len(s.order))
	for _, key := range s.order {
		if rec := s.claims[key]; keep(rec) {
			out = append(out, copyRecord(rec))
		}
	}
	return out
}

// copyRecord returns a deep copy so callers cannot mutate the registry
func copyRecord(rec *model.ClaimRecord) model.ClaimRecord {
	out := *rec
	out.Occurrences = append([]model.Occurrence(nil), rec.Occurrences...)
	out.Verification.EvidenceSources = append([]string(nil), rec.Verification.EvidenceSources...)
	if rec.Verification.Confidence != nil {
		conf := *rec.Verification.Confidence
		out.Verification.Confidence = &conf
	}
	if rec.Verification.VerifiedAt != nil {
		at := *rec.Verification.VerifiedAt
		out.Verification.VerifiedAt = &at
	}
	return out
}
