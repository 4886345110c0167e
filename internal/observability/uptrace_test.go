package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/club-roster/internal/config"
	"github.com/riskibarqy/club-roster/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "club-roster",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown := InitUptrace(cfg, logging.NewNop())
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSN(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, ServiceName: "club-roster"}

	shutdown := InitUptrace(cfg, logging.NewNop())
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}
