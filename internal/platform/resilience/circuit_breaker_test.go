package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, cooldown time.Duration, maxProbes int) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(threshold, cooldown, maxProbes)
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.clock = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b, now := newTestBreaker(2, 5*time.Second, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}
}

func TestCircuitBreaker_ReopensWhenProbeFails(t *testing.T) {
	b, now := newTestBreaker(1, 5*time.Second, 1)

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after single failure, got %s", state)
	}

	*now = now.Add(5 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe admission at cooldown boundary, got %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected reopened breaker to reject, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
}

func TestCircuitBreaker_HalfOpenBoundsProbes(t *testing.T) {
	b, now := newTestBreaker(1, time.Second, 2)

	b.RecordFailure()
	*now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe should pass: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe should pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("third probe should be rejected, got %v", err)
	}

	b.RecordSuccess()
	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after both probes succeed, got %s", state)
	}
}

func TestNewCircuitBreaker_ClampsArguments(t *testing.T) {
	b := NewCircuitBreaker(0, 0, 0)
	if b.threshold != 1 {
		t.Fatalf("expected threshold clamp to 1, got %d", b.threshold)
	}
	if b.cooldown != 15*time.Second {
		t.Fatalf("expected cooldown clamp to 15s, got %s", b.cooldown)
	}
	if b.maxProbes != 1 {
		t.Fatalf("expected max probes clamp to 1, got %d", b.maxProbes)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{
		Enabled:          false,
		FailureThreshold: 3,
		OpenTimeout:      -time.Second,
		HalfOpenMaxReq:   0,
	})

	if got.Enabled {
		t.Fatal("expected Enabled to pass through unchanged")
	}
	if got.FailureThreshold != 3 {
		t.Fatalf("expected valid threshold preserved, got %d", got.FailureThreshold)
	}
	if got.OpenTimeout != 15*time.Second {
		t.Fatalf("expected default open timeout, got %s", got.OpenTimeout)
	}
	if got.HalfOpenMaxReq != 2 {
		t.Fatalf("expected default half-open cap, got %d", got.HalfOpenMaxReq)
	}
}
