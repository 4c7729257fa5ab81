package app

import (
	"os"
	"strings"
	"time"

	redisclient "github.com/yungbote/intervention-backend/internal/clients/redis"
	"github.com/yungbote/intervention-backend/internal/data/db"
	"github.com/yungbote/intervention-backend/internal/observability"
	"github.com/yungbote/intervention-backend/internal/platform/envutil"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type Config struct {
	LogMode         string
	HTTPAddr        string
	MetricsAddr     string
	ShutdownTimeout time.Duration
	AllowOrigins    []string

	CodeMaxAttempts   int
	CreateMaxAttempts int
	IdempotencyTTL    time.Duration
	SystemActorID     uint
	CatalogSeedFile   string

	DB    db.Config
	Redis redisclient.Config
	Otel  observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		LogMode:           envutil.String("LOG_MODE", "development"),
		HTTPAddr:          envutil.String("HTTP_ADDR", ":8080"),
		MetricsAddr:       metricsAddr(),
		ShutdownTimeout:   envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		AllowOrigins:      splitList(envutil.String("CORS_ALLOW_ORIGINS", "")),
		CodeMaxAttempts:   envutil.Int("CASE_CODE_MAX_ATTEMPTS", 5),
		CreateMaxAttempts: envutil.Int("CASE_CREATE_MAX_ATTEMPTS", 3),
		IdempotencyTTL:    envutil.Seconds("IDEMPOTENCY_TTL_SECONDS", 24*time.Hour),
		SystemActorID:     uint(envutil.Int("SYSTEM_AUDIT_USER_ID", 1)),
		CatalogSeedFile:   envutil.String("CATALOG_SEED_FILE", ""),
		DB:                db.ConfigFromEnv(),
		Redis:             redisclient.ConfigFromEnv(),
		Otel:              observability.OtelConfigFromEnv(),
	}
	if cfg.SystemActorID == 0 {
		log.Warn("SYSTEM_AUDIT_USER_ID must be positive, using 1")
		cfg.SystemActorID = 1
	}
	log.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"metrics_addr", cfg.MetricsAddr,
		"db_driver", cfg.DB.Driver,
		"redis", cfg.Redis.Enabled(),
		"otel", cfg.Otel.Enabled,
	)
	return cfg
}

// metricsAddr treats an explicitly empty METRICS_ADDR as disabled.
func metricsAddr() string {
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok && strings.TrimSpace(v) == "" {
		return ""
	}
	return envutil.String("METRICS_ADDR", ":9090")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
