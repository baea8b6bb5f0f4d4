// Package worker provides bounded-concurrency primitives shared by the
// pipeline, the verifier and the batch command.
package worker

import (
	"context"
	"sync"
)

// Pool runs submitted functions with bounded parallelism. It is a thin
// semaphore wrapper: Go blocks until a slot frees up or the context is
// cancelled, so submission order is preserved under backpressure.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewPool creates a pool allowing at most size concurrent functions
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Go schedules fn on the pool. If ctx is cancelled before a slot is
// available, fn is never started and Go returns the context error.
func (p *Pool) Go(ctx context.Context, fn func(ctx context.Context)) error {
	// Check cancellation first: select alone would pick randomly
	// between a closed Done channel and a free slot.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.sem <- struct{}{}:
	}

	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		fn(ctx)
	}()

	return nil
}

// Wait blocks until every started function has returned
func (p *Pool) Wait() {
	p.wg.Wait()
}
