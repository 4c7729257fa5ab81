package aggregates

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/intervention-backend/internal/data/repos"
	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

const (
	opCaseCreate     = "aggregate.case.create"
	opCasePatch      = "aggregate.case.patch"
	opCaseTransition = "aggregate.case.transition"

	defaultCodeMaxAttempts   = 5
	defaultCreateMaxAttempts = 3
)

// CaseRepos are the table repos the case aggregate writes through.
type CaseRepos struct {
	Cases              repos.CaseRepo
	Referrals          repos.ReferralRepo
	CriminalEvents     repos.CriminalEventRepo
	CrimeTypes         repos.CrimeTypeFlagsRepo
	EventLocations     repos.EventLocationRepo
	PrimaryResponses   repos.PrimaryResponseActionRepo
	SexualAbuses       repos.SexualAbuseRepo
	SexualAbuseDetails repos.SexualAbuseDetailRepo
	Addresses          repos.AddressRepo
	Victims            repos.VictimRepo
	InterviewedPersons repos.InterviewedPersonRepo
	InterventionTypes  repos.InterventionTypeFlagsRepo
	FollowUps          repos.FollowUpRepo
	FollowUpTypes      repos.FollowUpTypeFlagsRepo
	FollowUpDetails    repos.FollowUpDetailRepo
	Events             repos.CaseEventRepo
	Catalog            repos.CatalogRepo
}

// NewCaseRepos builds every case table repo on db.
func NewCaseRepos(db *gorm.DB, log *logger.Logger) CaseRepos {
	return CaseRepos{
		Cases:              repos.NewCaseRepo(db, log),
		Referrals:          repos.NewReferralRepo(db, log),
		CriminalEvents:     repos.NewCriminalEventRepo(db, log),
		CrimeTypes:         repos.NewCrimeTypeFlagsRepo(db, log),
		EventLocations:     repos.NewEventLocationRepo(db, log),
		PrimaryResponses:   repos.NewPrimaryResponseActionRepo(db, log),
		SexualAbuses:       repos.NewSexualAbuseRepo(db, log),
		SexualAbuseDetails: repos.NewSexualAbuseDetailRepo(db, log),
		Addresses:          repos.NewAddressRepo(db, log),
		Victims:            repos.NewVictimRepo(db, log),
		InterviewedPersons: repos.NewInterviewedPersonRepo(db, log),
		InterventionTypes:  repos.NewInterventionTypeFlagsRepo(db, log),
		FollowUps:          repos.NewFollowUpRepo(db, log),
		FollowUpTypes:      repos.NewFollowUpTypeFlagsRepo(db, log),
		FollowUpDetails:    repos.NewFollowUpDetailRepo(db, log),
		Events:             repos.NewCaseEventRepo(db, log),
		Catalog:            repos.NewCatalogRepo(db, log),
	}
}

type CaseAggregateDeps struct {
	Base  BaseDeps
	Repos CaseRepos

	// CodeMaxAttempts bounds the code generator's collision loop.
	CodeMaxAttempts   int
	// CreateMaxAttempts bounds how often Create re-runs its transaction after
	// losing a race on the unique case code.
	CreateMaxAttempts int
	// Now defaults to time.Now.
	Now               func() time.Time
}

type CaseAggregate struct {
	deps  CaseAggregateDeps
	codes CaseCodeGenerator
}

var _ domainagg.CaseAggregate = (*CaseAggregate)(nil)

func NewCaseAggregate(deps CaseAggregateDeps) *CaseAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "CaseAggregate")
	if deps.CodeMaxAttempts <= 0 {
		deps.CodeMaxAttempts = defaultCodeMaxAttempts
	}
	if deps.CreateMaxAttempts <= 0 {
		deps.CreateMaxAttempts = defaultCreateMaxAttempts
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &CaseAggregate{
		deps:  deps,
		codes: CaseCodeGenerator{
			Cases:       deps.Repos.Cases,
			MaxAttempts: deps.CodeMaxAttempts,
			Now:         deps.Now,
			OnCollision: deps.Base.Hooks.IncCodeCollision,
		},
	}
}

func (a *CaseAggregate) Contract() domainagg.Contract {
	return domainagg.CaseAggregateContract
}
