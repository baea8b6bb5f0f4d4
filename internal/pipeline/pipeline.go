// Package pipeline wires segmentation, classification, normalization
// and the claim store into the extraction flow, and builds reports
// from the results.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/crediblehq/credible/internal/model"
	"github.com/crediblehq/credible/internal/normalize"
	"github.com/crediblehq/credible/internal/segment"
	"github.com/crediblehq/credible/internal/store"
	"github.com/crediblehq/credible/internal/worker"
)

// Classifier labels sentences (LLM-backed in production)
type Classifier interface {
	Label(ctx context.Context, sentence string) (model.Label, error)
}

// Pipeline runs the claim extraction flow over one document at a time.
// The store is supplied by the caller, who owns its lifetime; running
// several documents through the same pipeline accumulates claims in
// that store.
type Pipeline struct {
	classifier Classifier
	normalizer *normalize.Normalizer
	store      *store.Store
	workers    int
}

// New creates a pipeline. workers bounds concurrent sentence
// classification+normalization; sentences have no cross-dependency so
// they fan out safely.
func New(classifier Classifier, normalizer *normalize.Normalizer, s *store.Store, workers int) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		classifier: classifier,
		normalizer: normalizer,
		store:      s,
		workers:    workers,
	}
}

// Result is the outcome of one document run
type Result struct {
	Sentences []model.SentenceRecord
	Claims    []model.ClaimRecord
	Skipped   int // Sentences dropped by classification/extraction failures
}

// Run segments text, classifies each sentence and registers every
// FACT_CLAIM in the store. Per-sentence failures skip that sentence
// only; the batch always completes.
func (p *Pipeline) Run(ctx context.Context, text string) (*Result, error) {
	sentences := segment.Segment(text)

	var mu sync.Mutex
	skipped := 0

	pool := worker.NewPool(p.workers)
	for i := range sentences {
		i := i
		err := pool.Go(ctx, func(ctx context.Context) {
			if skip := p.processSentence(ctx, &sentences[i]); skip {
				mu.Lock()
				skipped++
				mu.Unlock()
			}
		})
		if err != nil {
			pool.Wait()
			return nil, err
		}
	}
	pool.Wait()

	return &Result{
		Sentences: sentences,
		Claims:    p.store.All(),
		Skipped:   skipped,
	}, nil
}

// processSentence labels one sentence and, for fact claims, normalizes
// and stores it. Returns true when the sentence had to be skipped.
// Each goroutine owns its record exclusively, so writing the label
// needs no lock.
func (p *Pipeline) processSentence(ctx context.Context, rec *model.SentenceRecord) bool {
	label, err := p.classifier.Label(ctx, rec.Text)
	if err != nil {
		return true
	}
	rec.Label = label

	input, err := p.normalizer.Normalize(ctx, *rec)
	if err != nil {
		// Extraction failed for this one claim sentence
		return true
	}
	if input == nil {
		// Not a FACT_CLAIM: normal filtering, not a failure
		return false
	}

	p.store.AddClaim(*input)
	return false
}

// BuildReport assembles the report for a completed run
func (p *Pipeline) BuildReport(subject, sourceURL string, res *Result) *model.Report {
	return &model.Report{
		Subject:    subject,
		SourceURL:  sourceURL,
		AnalyzedAt: time.Now().UTC(),
		Sentences:  res.Sentences,
		Claims:     p.store.All(),
		Skipped:    res.Skipped,
		Summary:    p.store.Summary(),
	}
}
