package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/intervention-backend/internal/data/aggregates"
	"github.com/yungbote/intervention-backend/internal/observability"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
	"github.com/yungbote/intervention-backend/internal/services"
)

type Services struct {
	Cases services.CaseService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, caseRepos aggregates.CaseRepos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	agg := aggregates.NewCaseAggregate(aggregates.CaseAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: aggregates.NewObservabilityHooks(metrics),
		},
		Repos:             caseRepos,
		CodeMaxAttempts:   cfg.CodeMaxAttempts,
		CreateMaxAttempts: cfg.CreateMaxAttempts,
	})

	contract := agg.Contract()
	log.Info("aggregate wired",
		"aggregate", contract.Name,
		"tx_ownership", contract.WriteTxOwnership,
		"owned_tables", len(contract.OwnedTables),
	)

	var idem services.IdempotencyStore
	if clients.Redis != nil {
		idem = services.NewRedisIdempotencyStore(clients.Redis, cfg.IdempotencyTTL, log)
	} else {
		log.Warn("REDIS_ADDR not set, idempotency keys are kept in memory")
		idem = services.NewMemoryIdempotencyStore(cfg.IdempotencyTTL, nil)
	}

	return Services{
		Cases: services.NewCaseService(log, agg, caseRepos.Cases, idem, metrics, cfg.SystemActorID),
	}
}
