package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/intervention-backend/internal/data/repos"
	types "github.com/yungbote/intervention-backend/internal/domain"
	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
	"github.com/yungbote/intervention-backend/internal/observability"
	"github.com/yungbote/intervention-backend/internal/platform/ctxutil"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

const (
	opServiceCreate = "service.case.create"
	opServiceGet    = "service.case.get"
)

// fingerprintSpace namespaces request fingerprints for idempotency keys.
var fingerprintSpace = uuid.MustParse("6f1c2a4e-3b9d-5e8f-a1c7-0d2e4b6f8a90")

type CreateOutcome struct {
	Result domainagg.CreateCaseResult
	// Replayed is true when Result was served from the idempotency store.
	Replayed bool
}

type CaseService interface {
	Create(ctx context.Context, idempotencyKey string, in domainagg.CreateCaseInput) (CreateOutcome, error)
	Get(ctx context.Context, id uint, includeDeleted bool) (*types.Case, error)
	Patch(ctx context.Context, in domainagg.PatchCaseInput) (domainagg.PatchCaseResult, error)
	Transition(ctx context.Context, id uint, tr domainagg.Transition) (*types.Case, error)
}

type caseService struct {
	log           *logger.Logger
	agg           domainagg.CaseAggregate
	cases         repos.CaseRepo
	idem          IdempotencyStore
	metrics       *observability.Metrics
	systemActorID uint
}

func NewCaseService(
	baseLog *logger.Logger,
	agg domainagg.CaseAggregate,
	cases repos.CaseRepo,
	idem IdempotencyStore,
	metrics *observability.Metrics,
	systemActorID uint,
) CaseService {
	if idem == nil {
		idem = NewMemoryIdempotencyStore(24*time.Hour, nil)
	}
	return &caseService{
		log:           baseLog.With("service", "CaseService"),
		agg:           agg,
		cases:         cases,
		idem:          idem,
		metrics:       metrics,
		systemActorID: systemActorID,
	}
}

func (s *caseService) actor(ctx context.Context) uint {
	return ctxutil.ActorID(ctx, s.systemActorID)
}

func (s *caseService) Create(ctx context.Context, idempotencyKey string, in domainagg.CreateCaseInput) (CreateOutcome, error) {
	in.ActorID = s.actor(ctx)

	key, err := NormalizeIdempotencyKey(idempotencyKey)
	if err != nil {
		return CreateOutcome{}, domainagg.NewError(domainagg.CodeValidation, opServiceCreate, err.Error(), nil)
	}
	if key == "" {
		res, err := s.agg.Create(ctx, in)
		return CreateOutcome{Result: res}, err
	}

	fp, err := fingerprint(in)
	if err != nil {
		return CreateOutcome{}, domainagg.Wrap(domainagg.CodeInternal, opServiceCreate, err)
	}
	prior, err := s.idem.Get(ctx, key)
	if err != nil {
		// Lookup failures fall through to a fresh create.
		s.log.Warn("idempotency lookup failed", append(ctxutil.LogFields(ctx), "error", err)...)
	}
	if prior != nil {
		if prior.Fingerprint != fp {
			return CreateOutcome{}, domainagg.NewError(domainagg.CodeConflict, opServiceCreate,
				"idempotency key reused with a different payload", nil)
		}
		var res domainagg.CreateCaseResult
		if err := json.Unmarshal(prior.Result, &res); err != nil {
			return CreateOutcome{}, domainagg.Wrap(domainagg.CodeInternal, opServiceCreate, err)
		}
		s.metrics.IncIdempotentReplay()
		s.log.Info("case create replayed", append(ctxutil.LogFields(ctx), "code", res.Code, "case_id", res.IDs.CaseID)...)
		return CreateOutcome{Result: res, Replayed: true}, nil
	}

	res, err := s.agg.Create(ctx, in)
	if err != nil {
		return CreateOutcome{}, err
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return CreateOutcome{Result: res}, nil
	}
	stored, err := s.idem.PutIfAbsent(ctx, key, IdempotencyRecord{Fingerprint: fp, Result: raw, StoredAt: time.Now().UTC()})
	switch {
	case err != nil:
		s.log.Warn("idempotency store failed", append(ctxutil.LogFields(ctx), "case_id", res.IDs.CaseID, "error", err)...)
	case !stored:
		s.log.Warn("idempotency key stored by a concurrent request", append(ctxutil.LogFields(ctx), "case_id", res.IDs.CaseID)...)
	}
	return CreateOutcome{Result: res}, nil
}

// fingerprint hashes the submitted document; the actor is excluded.
func fingerprint(in domainagg.CreateCaseInput) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(fingerprintSpace, raw).String(), nil
}

func (s *caseService) Get(ctx context.Context, id uint, includeDeleted bool) (*types.Case, error) {
	if id == 0 {
		return nil, domainagg.NewError(domainagg.CodeValidation, opServiceGet, "case id is required", nil)
	}
	c, err := s.cases.GetAggregate(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, opServiceGet, err)
	}
	if c == nil || (c.IsTerminal() && !includeDeleted) {
		return nil, domainagg.NewError(domainagg.CodeNotFound, opServiceGet, fmt.Sprintf("case %d not found", id), nil)
	}
	return c, nil
}

func (s *caseService) Patch(ctx context.Context, in domainagg.PatchCaseInput) (domainagg.PatchCaseResult, error) {
	in.ActorID = s.actor(ctx)
	return s.agg.Patch(ctx, in)
}

func (s *caseService) Transition(ctx context.Context, id uint, tr domainagg.Transition) (*types.Case, error) {
	return s.agg.Transition(ctx, domainagg.TransitionInput{
		CaseID:     id,
		ActorID:    s.actor(ctx),
		Transition: tr,
	})
}
