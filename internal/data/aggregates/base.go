package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/intervention-backend/internal/data/aggregates"

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

// executeWrite runs fn in one transaction owned by the aggregate.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op)

	ctx, span := otel.Tracer(tracerName).Start(ctx, op)
	defer span.End()

	err := deps.Runner.InTx(ctx, fn)
	return finishOperation(deps, span, op, start, err)
}

// executeDirect runs fn against the pool without opening a transaction.
// Used for single-row guarded updates.
func executeDirect(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op)

	ctx, span := otel.Tracer(tracerName).Start(ctx, op)
	defer span.End()

	var err error
	if fn != nil {
		err = fn(dbctx.Context{Ctx: ctx})
	}
	return finishOperation(deps, span, op, start, err)
}

// failBeforeWrite records an operation rejected before any statement ran.
func failBeforeWrite(deps BaseDeps, op string, err error) error {
	deps = deps.withDefaults()
	op = normalizeOp(op)
	return finishOperation(deps, nil, op, time.Now(), err)
}

func finishOperation(deps BaseDeps, span trace.Span, op string, start time.Time, err error) error {
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeExhausted) {
			deps.Hooks.IncExhausted(op)
		}
	}
	if span != nil {
		span.SetAttributes(attribute.String("aggregate.status", status))
		if mapped != nil {
			span.SetStatus(codes.Error, mapped.Error())
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func normalizeOp(op string) string {
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	return op
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
