package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pitwall/f1-stats/internal/config"
	"github.com/pitwall/f1-stats/internal/platform/logging"
)

type shipSink struct {
	mu       sync.Mutex
	requests int
	auth     string
	body     strings.Builder
}

func (s *shipSink) handle(w http.ResponseWriter, r *http.Request) {
	payload, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests++
	s.auth = r.Header.Get("Authorization")
	s.body.Write(payload)
	s.mu.Unlock()
	w.WriteHeader(http.StatusAccepted)
}

func (s *shipSink) stats() (int, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests, s.auth, s.body.String()
}

func newShipperFixture(t *testing.T) (config.Config, *shipSink) {
	t.Helper()

	sink := &shipSink{}
	server := httptest.NewServer(http.HandlerFunc(sink.handle))
	t.Cleanup(server.Close)

	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: server.URL,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		ServiceName:         "f1-stats",
		AppEnv:              config.EnvDev,
	}, sink
}

func TestInitBetterStackLogger_ShipsErrorLogs(t *testing.T) {
	t.Parallel()

	cfg, sink := newShipperFixture(t)

	logger, shutdown, err := InitBetterStackLogger(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}
	logger.ErrorContext(context.Background(), "provider request failed", "component", "ergast")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	requests, auth, body := sink.stats()
	if requests == 0 {
		t.Fatal("expected at least one shipped batch")
	}
	if auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
	if !strings.Contains(body, "provider request failed") {
		t.Fatalf("shipped payload missing message: %q", body)
	}
}

func TestInitBetterStackLogger_DropsEntriesBelowMinLevel(t *testing.T) {
	t.Parallel()

	cfg, sink := newShipperFixture(t)

	logger, shutdown, err := InitBetterStackLogger(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}
	logger.InfoContext(context.Background(), "unit finished", "season", 1950)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	if requests, _, _ := sink.stats(); requests != 0 {
		t.Fatalf("expected nothing shipped for info log, got %d requests", requests)
	}
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                        "",
		"   ":                     "",
		"in.logs.betterstack.com": "https://in.logs.betterstack.com",
		"http://localhost:9100":   "http://localhost:9100",
		"https://in.example.com":  "https://in.example.com",
	}
	for input, want := range cases {
		if got := normalizeBetterStackEndpoint(input); got != want {
			t.Errorf("normalizeBetterStackEndpoint(%q) = %q, want %q", input, got, want)
		}
	}
}
