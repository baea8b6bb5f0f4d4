package worker

import (
	"context"
	"testing"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow("example.com") {
		t.Error("first request should be allowed")
	}
	if !l.Allow("example.com") {
		t.Error("second request within burst should be allowed")
	}
	if l.Allow("example.com") {
		t.Error("third request should be throttled")
	}

	// Independent key has its own budget
	if !l.Allow("other.org") {
		t.Error("separate key should not share the budget")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetRate("fast.example", 1000, 10)

	for i := 0; i < 10; i++ {
		if !l.Allow("fast.example") {
			t.Fatalf("request %d should be allowed under raised burst", i)
		}
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("slow.example") // drain the burst token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx, "slow.example"); err == nil {
		t.Error("expected context error from Wait")
	}
}
