package alerthook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pitwall/f1-stats/internal/platform/resilience"
	"github.com/pitwall/f1-stats/internal/usecase"
)

func sampleAlert() usecase.RunAlert {
	return usecase.RunAlert{
		RunID:          "run-123",
		Mode:           "season",
		Status:         "SUCCESS",
		Seasons:        []int{2024},
		UnitsTotal:     24,
		UnitsSucceeded: 24,
	}
}

func TestPublisher_PublishRunAlert_DeliversPayload(t *testing.T) {
	var gotAuth atomic.Value
	var gotBody atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		gotBody.Store(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewPublisher(PublisherConfig{
		URL:     server.URL + "/hooks/etl",
		Token:   "hook-secret",
		Timeout: 2 * time.Second,
	}, nil)

	if err := publisher.PublishRunAlert(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("publish run alert: %v", err)
	}

	if auth, _ := gotAuth.Load().(string); auth != "Bearer hook-secret" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}

	raw, _ := gotBody.Load().([]byte)
	var decoded runAlertBody
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode delivered body: %v", err)
	}
	if decoded.RunID != "run-123" {
		t.Fatalf("unexpected run id: %q", decoded.RunID)
	}
	if decoded.Status != "SUCCESS" {
		t.Fatalf("unexpected status: %q", decoded.Status)
	}
	if decoded.UnitsTotal != 24 || decoded.UnitsSucceeded != 24 {
		t.Fatalf("unexpected unit counts: %+v", decoded)
	}
	if decoded.EmittedAt == "" {
		t.Fatalf("expected emitted_at to be stamped")
	}
}

func TestPublisher_PublishRunAlert_ServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "hook exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewPublisher(PublisherConfig{URL: server.URL}, nil)

	err := publisher.PublishRunAlert(context.Background(), sampleAlert())
	if err == nil {
		t.Fatalf("expected error for status 500")
	}
	if !errors.Is(err, errAlertHookTransient) {
		t.Fatalf("expected transient classification, got %v", err)
	}
}

func TestPublisher_PublishRunAlert_ClientErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad alert", http.StatusBadRequest)
	}))
	defer server.Close()

	publisher := NewPublisher(PublisherConfig{URL: server.URL}, nil)

	err := publisher.PublishRunAlert(context.Background(), sampleAlert())
	if err == nil {
		t.Fatalf("expected error for status 400")
	}
	if errors.Is(err, errAlertHookTransient) {
		t.Fatalf("status 400 must not be transient: %v", err)
	}
}

func TestPublisher_PublishRunAlert_CircuitShortCircuitsAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "hook exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewPublisher(PublisherConfig{
		URL: server.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, nil)

	if err := publisher.PublishRunAlert(context.Background(), sampleAlert()); err == nil {
		t.Fatalf("expected first publish to fail")
	}
	if err := publisher.PublishRunAlert(context.Background(), sampleAlert()); err == nil {
		t.Fatalf("expected breaker to reject second publish")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected breaker to stop the second request, server saw %d calls", got)
	}
}

func TestPublisher_PublishRunAlert_RejectsInvalidURL(t *testing.T) {
	publisher := NewPublisher(PublisherConfig{URL: "ftp://alerts.internal"}, nil)

	if err := publisher.PublishRunAlert(context.Background(), sampleAlert()); err == nil {
		t.Fatalf("expected error for non-http url")
	}
}

func TestPublisher_PublishRunAlert_RequiresRunID(t *testing.T) {
	publisher := NewPublisher(PublisherConfig{URL: "https://alerts.internal/hooks"}, nil)

	alert := sampleAlert()
	alert.RunID = "  "
	if err := publisher.PublishRunAlert(context.Background(), alert); err == nil {
		t.Fatalf("expected error for missing run id")
	}
}
