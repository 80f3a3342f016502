package observability

import (
	"context"
	"testing"

	"github.com/pitwall/f1-stats/internal/config"
	"github.com/pitwall/f1-stats/internal/platform/logging"
)

func TestInitUptrace_DisabledPaths(t *testing.T) {
	tests := map[string]config.Config{
		"toggle off": {
			UptraceEnabled: false,
			ServiceName:    "f1-stats",
			ServiceVersion: "dev",
			AppEnv:         config.EnvDev,
		},
		"blank dsn": {
			UptraceEnabled: true,
			UptraceDSN:     "   ",
			ServiceName:    "f1-stats",
			ServiceVersion: "dev",
			AppEnv:         config.EnvDev,
		},
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			shutdown, err := InitUptrace(cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("init uptrace: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown uptrace: %v", err)
			}
		})
	}
}
