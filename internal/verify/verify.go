// Package verify drives pending claims through query generation,
// evidence search and verdict synthesis. The reliability contract: a
// claim a batch pass starts on always ends with a verdict — transient
// failures resolve to UNVERIFIABLE, never to a claim stuck pending.
package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/crediblehq/credible/internal/model"
	"github.com/crediblehq/credible/internal/query"
	"github.com/crediblehq/credible/internal/search"
	"github.com/crediblehq/credible/internal/store"
	"github.com/crediblehq/credible/internal/worker"
)

// Synthesizer is the verdict-synthesis collaborator
type Synthesizer interface {
	Synthesize(ctx context.Context, claim, evidence string) (*model.SynthesisResult, error)
}

// Outcome reports how one claim's verification pass ended. Err is set
// for structural failures (malformed key, store misuse, cancellation
// before start); infrastructure failures are not errors here — they
// surface as an UNVERIFIABLE verdict.
type Outcome struct {
	CanonicalClaim string
	Verdict        model.Verdict
	Err            error
}

// Verifier orchestrates claim verification against a store
type Verifier struct {
	store    *store.Store
	provider search.Provider
	synth    Synthesizer
	workers  int

	// Context is an optional topic hint prefixed to every query
	Context string

	// Progress, when set, is called before each claim is verified
	Progress func(canonicalClaim string)
}

// New creates a verifier with the given concurrency bound
func New(s *store.Store, provider search.Provider, synth Synthesizer, workers int) *Verifier {
	if workers <= 0 {
		workers = 1
	}
	return &Verifier{store: s, provider: provider, synth: synth, workers: workers}
}

// VerifyAll runs one pass over the currently pending claims with
// bounded concurrency. It does not retry within the pass and never
// revisits claims a prior pass marked UNVERIFIABLE (reset them
// explicitly to re-queue). On cancellation, unstarted claims stay
// pending and are safely retryable; the returned error joins any
// structural failures.
func (v *Verifier) VerifyAll(ctx context.Context) ([]Outcome, error) {
	pending := v.store.UnverifiedClaims()
	outcomes := make([]Outcome, len(pending))

	pool := worker.NewPool(v.workers)
	for i, claim := range pending {
		i, canonical := i, claim.CanonicalClaim
		err := pool.Go(ctx, func(ctx context.Context) {
			outcomes[i] = v.verifyOne(ctx, canonical)
		})
		if err != nil {
			// Cancelled before this claim started; it stays pending
			outcomes[i] = Outcome{CanonicalClaim: canonical, Err: err}
		}
	}
	pool.Wait()

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.CanonicalClaim, o.Err))
		}
	}
	return outcomes, errors.Join(errs...)
}

// VerifyClaim verifies a single claim by canonical key
func (v *Verifier) VerifyClaim(ctx context.Context, canonicalClaim string) Outcome {
	return v.verifyOne(ctx, canonicalClaim)
}

func (v *Verifier) verifyOne(ctx context.Context, canonical string) Outcome {
	if v.Progress != nil {
		v.Progress(canonical)
	}

	queries, err := query.BuildQueries(canonical, v.Context)
	if err != nil {
		// Malformed canonical key: contract violation, surfaced rather
		// than recorded
		return Outcome{CanonicalClaim: canonical, Err: err}
	}

	if len(queries) == 0 {
		return v.record(canonical, model.VerdictUnverifiable, 0,
			"no searchable fields in claim", nil)
	}

	var evidence []search.Result
	for _, q := range queries {
		results, err := v.provider.Search(ctx, q)
		if err != nil {
			// Failed query contributes zero evidence; the rest proceed
			continue
		}
		evidence = append(evidence, results...)
	}
	evidence = search.DedupByURL(evidence)

	if len(evidence) == 0 {
		// Short-circuit: no synthesis call without evidence
		return v.record(canonical, model.VerdictUnverifiable, 0,
			"no evidence found for any search query", nil)
	}

	result, err := v.synth.Synthesize(ctx, canonical, search.FormatEvidence(evidence))
	if err != nil {
		return v.record(canonical, model.VerdictUnverifiable, 0,
			fmt.Sprintf("verification failed: %v", err), nil)
	}

	return v.record(canonical, result.Verdict, result.Confidence, result.Reasoning, result.EvidenceSources)
}

func (v *Verifier) record(canonical string, verdict model.Verdict, confidence float64, reasoning string, sources []string) Outcome {
	if err := v.store.UpdateVerification(canonical, verdict, confidence, reasoning, sources); err != nil {
		return Outcome{CanonicalClaim: canonical, Err: err}
	}
	return Outcome{CanonicalClaim: canonical, Verdict: verdict}
}
