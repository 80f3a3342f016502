package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew_PacesAfterBurst(t *testing.T) {
	t.Parallel()

	limiter := New(50, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("second wait returned after %v, want at least 10ms", elapsed)
	}
}

func TestNew_WaitHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	limiter := New(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("burst token wait: %v", err)
	}
	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("expected error when context expires before a token is available")
	}
}

func TestNop_NeverBlocks(t *testing.T) {
	t.Parallel()

	limiter := Nop()
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 1000; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("nop limiter blocked for %v", elapsed)
	}
}
