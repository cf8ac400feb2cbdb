package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterWait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "dune"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "hobbit"); err != nil {
		t.Fatalf("Wait for a second book failed: %v", err)
	}
}

func TestLimiterThrottlesPerBook(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("dune") {
		t.Fatal("first row for a book should be allowed")
	}
	if limiter.Allow("dune") {
		t.Error("second immediate row for the same book should be throttled")
	}
	if !limiter.Allow("hobbit") {
		t.Error("another book should have its own budget")
	}
}

func TestLimiterWaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx := context.Background()

	// Drain the burst so the next Wait would block for ~100 seconds.
	if err := limiter.Wait(ctx, "dune"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "dune"); err == nil {
		t.Error("expected context deadline error")
	}
}
