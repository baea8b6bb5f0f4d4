package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsAll(t *testing.T) {
	pool := NewPool(3)
	ctx := context.Background()

	var ran int32
	for i := 0; i < 20; i++ {
		if err := pool.Go(ctx, func(context.Context) {
			atomic.AddInt32(&ran, 1)
		}); err != nil {
			t.Fatalf("Go: %v", err)
		}
	}
	pool.Wait()

	if ran != 20 {
		t.Errorf("expected 20 runs, got %d", ran)
	}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	const size = 4
	pool := NewPool(size)
	ctx := context.Background()

	var current, peak int32
	var mu sync.Mutex

	for i := 0; i < 30; i++ {
		_ = pool.Go(ctx, func(context.Context) {
			c := atomic.AddInt32(&current, 1)
			mu.Lock()
			if c > peak {
				peak = c
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
		})
	}
	pool.Wait()

	if peak > size {
		t.Errorf("concurrency exceeded pool size: peak %d > %d", peak, size)
	}
}

func TestPool_CancelledSubmit(t *testing.T) {
	pool := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	_ = pool.Go(ctx, func(context.Context) { <-release })

	cancel()
	err := pool.Go(ctx, func(context.Context) {
		t.Error("function started after cancellation")
	})
	if err == nil {
		t.Error("expected context error from Go after cancel")
	}

	close(release)
	pool.Wait()
}

func TestPool_ZeroSize(t *testing.T) {
	pool := NewPool(0)
	var ran int32
	_ = pool.Go(context.Background(), func(context.Context) { atomic.AddInt32(&ran, 1) })
	pool.Wait()
	if ran != 1 {
		t.Error("zero-size pool should default to one worker")
	}
}
