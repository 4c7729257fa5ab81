package app

import (
	"gorm.io/gorm"

	apphttp "github.com/yungbote/intervention-backend/internal/http"
	httpH "github.com/yungbote/intervention-backend/internal/http/handlers"
	"github.com/yungbote/intervention-backend/internal/observability"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Case   *httpH.CaseHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Case:   httpH.NewCaseHandler(log, services.Cases),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *apphttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.NewServer(log, apphttp.RouterConfig{
		Log:           log,
		Metrics:       metrics,
		ServiceName:   serviceName,
		AllowOrigins:  cfg.AllowOrigins,
		SystemActorID: cfg.SystemActorID,
		CaseHandler:   handlers.Case,
		HealthHandler: handlers.Health,
	})
}
