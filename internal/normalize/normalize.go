// Package normalize owns the canonical claim format: the pipe-joined
// 6-field string key that deduplicates semantically identical factual
// statements, and the Normalizer that produces it from classified
// sentences.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crediblehq/credible/internal/model"
)

// Null is the literal token rendering an absent field
const Null = "null"

// Separator joins the six canonical fields
const Separator = "|"

const numFields = 6

// ErrExtraction marks a field-extraction failure for a FACT_CLAIM
// sentence. Callers skip the sentence and continue; it is distinct from
// the nil result Normalize returns for non-claim sentences.
var ErrExtraction = errors.New("claim field extraction failed")

// ErrMalformedClaim marks a canonical claim string that violates the
// 6-field invariant. This is a contract violation, not a runtime
// condition, and is surfaced to the caller.
var ErrMalformedClaim = errors.New("malformed canonical claim")

// Norm maps an absent or all-whitespace value to the Null token and
// passes everything else through unchanged.
func Norm(value string) string {
	if strings.TrimSpace(value) == "" {
		return Null
	}
	return value
}

// sanitize keeps the field separator out of field values
func sanitize(value string) string {
	return strings.ReplaceAll(value, Separator, "/")
}

// BuildCanonicalClaim joins the six fields, in fixed order, into the
// deduplication key. Field-wise equal inputs always produce identical
// strings.
func BuildCanonicalClaim(fields model.ExtractedFields) string {
	return strings.Join([]string{
		Norm(sanitize(fields.Subject)),
		Norm(sanitize(fields.Predicate)),
		Norm(sanitize(fields.Object)),
		Norm(sanitize(fields.Time)),
		Norm(sanitize(fields.Location)),
		Norm(sanitize(fields.Source)),
	}, Separator)
}

// ParseCanonicalClaim splits a canonical claim back into its fields,
// mapping Null tokens to empty strings. Returns ErrMalformedClaim
// unless there are exactly six fields.
func ParseCanonicalClaim(canonical string) (model.ExtractedFields, error) {
	parts := strings.Split(canonical, Separator)
	if len(parts) != numFields {
		return model.ExtractedFields{}, fmt.Errorf("%w: %d fields in %q", ErrMalformedClaim, len(parts), canonical)
	}

	unnull := func(s string) string {
		if s == Null {
			return ""
		}
		return s
	}

	return model.ExtractedFields{
		Subject:   unnull(parts[0]),
		Predicate: unnull(parts[1]),
		Object:    unnull(parts[2]),
		Time:      unnull(parts[3]),
		Location:  unnull(parts[4]),
		Source:    unnull(parts[5]),
	}, nil
}

// Extractor is the collaborator that pulls structured fields from a
// sentence (typically LLM-backed, fallible and slow).
type Extractor interface {
	Extract(ctx context.Context, sentence string) (model.ExtractedFields, error)
}

// Normalizer turns classified sentences into claim inputs
type Normalizer struct {
	extractor Extractor
}

// New creates a Normalizer over the given extractor
func New(extractor Extractor) *Normalizer {
	return &Normalizer{extractor: extractor}
}

// Normalize produces the claim input for a FACT_CLAIM sentence. Any
// other label returns (nil, nil): not a candidate claim. Extraction
// failures return an error wrapping ErrExtraction so callers can tell
// the two cases apart.
func (n *Normalizer) Normalize(ctx context.Context, rec model.SentenceRecord) (*model.ClaimInput, error) {
	if rec.Label != model.LabelFactClaim {
		return nil, nil
	}

	fields, err := n.extractor.Extract(ctx, rec.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: sentence %d: %v", ErrExtraction, rec.ID, err)
	}

	return &model.ClaimInput{
		CanonicalClaim:   BuildCanonicalClaim(fields),
		SentenceID:       rec.ID,
		ParagraphIndex:   rec.ParagraphIndex,
		OriginalSentence: rec.Text,
	}, nil
}
