package redis

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", " localhost:6379 ")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_DIAL_TIMEOUT_SECONDS", "1")

	cfg := ConfigFromEnv()
	if !cfg.Enabled() || cfg.Addr != "localhost:6379" {
		t.Fatalf("addr: %+v", cfg)
	}
	if cfg.DB != 2 || cfg.DialTimeout != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewClientRequiresAddr(t *testing.T) {
	if _, err := NewClient(context.Background(), logger.Nop(), Config{}); err == nil {
		t.Fatalf("expected error without address")
	}
	if _, err := NewClient(context.Background(), nil, Config{Addr: "x:1"}); err == nil {
		t.Fatalf("expected error without logger")
	}
}
