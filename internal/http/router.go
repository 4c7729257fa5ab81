package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/intervention-backend/internal/http/handlers"
	httpMW "github.com/yungbote/intervention-backend/internal/http/middleware"
	"github.com/yungbote/intervention-backend/internal/observability"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

const healthPath = "/healthcheck"

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	// ServiceName names HTTP spans; tracing middleware is skipped when empty.
	ServiceName   string
	AllowOrigins  []string
	SystemActorID uint

	CaseHandler   *httpH.CaseHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, healthPath))
	r.Use(httpMW.CORS(cfg.AllowOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET(healthPath, cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	api.Use(httpMW.AttachActor(cfg.SystemActorID))
	{
		// Cases
		if cfg.CaseHandler != nil {
			api.POST("/cases", cfg.CaseHandler.Create)
			api.GET("/cases/:id", cfg.CaseHandler.Get)
			api.PATCH("/cases/:id", cfg.CaseHandler.Patch)
			api.DELETE("/cases/:id", cfg.CaseHandler.Delete)
			api.POST("/cases/:id/close", cfg.CaseHandler.Close)
			api.POST("/cases/:id/archive", cfg.CaseHandler.Archive)
			api.POST("/cases/:id/reactivate", cfg.CaseHandler.Reactivate)
		}
	}

	return r
}
