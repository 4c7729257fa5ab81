package aggregates

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/intervention-backend/internal/domain"
	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
	"github.com/yungbote/intervention-backend/internal/normalization"
	"github.com/yungbote/intervention-backend/internal/pkg/pointers"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
)

type preparedCreate struct {
	in         domainagg.CreateCaseInput
	referredAt time.Time
	birthDate  *datatypes.Date
}

func prepareCreate(in domainagg.CreateCaseInput) (preparedCreate, error) {
	if in.ActorID == 0 {
		return preparedCreate{}, ValidationError("actor id is required")
	}
	if in.Referral.ReasonCode == 0 {
		return preparedCreate{}, ValidationError("referral.reasonCode is required")
	}
	referredAt, err := normalization.ParseTimestamp(in.Referral.ReferralTimestamp)
	if err != nil {
		return preparedCreate{}, ValidationError(fmt.Sprintf("referral.referralTimestamp: %v", err))
	}
	if in.CriminalEvent.AttackerCount < 0 {
		return preparedCreate{}, ValidationError("criminalEvent.attackerCount must be >= 0")
	}
	birth, err := normalization.ParseOptionalDate(in.Victim.BirthDate)
	if err != nil {
		return preparedCreate{}, ValidationError(fmt.Sprintf("victim.birthDate: %v", err))
	}
	out := preparedCreate{in: in, referredAt: referredAt}
	if birth != nil {
		d := datatypes.Date(*birth)
		out.birthDate = &d
	}
	return out, nil
}

// Create inserts the case and all owned rows in one transaction. A lost
// race on the case code re-runs the whole transaction with a fresh code.
func (a *CaseAggregate) Create(ctx context.Context, in domainagg.CreateCaseInput) (domainagg.CreateCaseResult, error) {
	prepared, err := prepareCreate(in)
	if err != nil {
		return domainagg.CreateCaseResult{}, failBeforeWrite(a.deps.Base, opCaseCreate, err)
	}

	for attempt := 1; ; attempt++ {
		var out domainagg.CreateCaseResult
		err := executeWrite(ctx, a.deps.Base, opCaseCreate, func(dbc dbctx.Context) error {
			res, err := a.createInTx(dbc, prepared)
			if err != nil {
				return err
			}
			out = res
			return nil
		})
		if err == nil {
			a.deps.Base.Log.Info("case created",
				"case_id", out.IDs.CaseID,
				"code", out.Code,
				"actor_id", in.ActorID,
			)
			return out, nil
		}
		if !domainagg.IsCode(err, domainagg.CodeConflict) || attempt >= a.deps.CreateMaxAttempts {
			return domainagg.CreateCaseResult{}, err
		}
		a.deps.Base.Hooks.IncRetry(opCaseCreate)
		a.deps.Base.Log.Warn("case create conflicted, retrying", "attempt", attempt, "error", err)
	}
}

func (a *CaseAggregate) createInTx(dbc dbctx.Context, p preparedCreate) (domainagg.CreateCaseResult, error) {
	r := a.deps.Repos
	in := p.in

	ok, err := r.Catalog.ReferralReasonExists(dbc, in.Referral.ReasonCode)
	if err != nil {
		return domainagg.CreateCaseResult{}, err
	}
	if !ok {
		return domainagg.CreateCaseResult{}, PreconditionError(fmt.Sprintf("unknown referral reason %d", in.Referral.ReasonCode))
	}

	code, err := a.codes.Next(dbc)
	if err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	c := &types.Case{
		Code:        code,
		Date:        a.deps.Now().UTC(),
		Coordinator: pointers.Map(in.Case.Coordinator, normalization.TrimText),
		Operator:    pointers.Map(in.Case.Operator, normalization.TrimText),
		Summary:     normalization.TrimText(in.Case.Summary),
		Status:      types.CaseStatusActive,
		Deleted:     false,
	}
	if err := r.Cases.Create(dbc, c); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	referral := &types.Referral{
		CaseID:       c.ID,
		ReasonID:     in.Referral.ReasonCode,
		ReferrerName: normalization.TrimText(in.Referral.ReferrerName),
		ReferredAt:   p.referredAt,
	}
	if err := r.Referrals.Create(dbc, referral); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	event := &types.CriminalEvent{
		CaseID:         c.ID,
		CaseFileNumber: normalization.TrimText(in.CriminalEvent.CaseFileNumber),
		AttackerCount:  in.CriminalEvent.AttackerCount,
	}
	if err := r.CriminalEvents.Create(dbc, event); err != nil {
		return domainagg.CreateCaseResult{}, err
	}
	ct := in.CriminalEvent.CrimeTypes
	if err := r.CrimeTypes.Create(dbc, &types.CrimeTypeFlags{
		CriminalEventID: event.ID,
		Robbery:         ct.Robbery.Bool(),
		RobberyFirearm:  ct.RobberyFirearm.Bool(),
		RobberyBlade:    ct.RobberyBlade.Bool(),
		Threats:         ct.Threats.Bool(),
		Injury:          ct.Injury.Bool(),
		InjuryFirearm:   ct.InjuryFirearm.Bool(),
		InjuryBlade:     ct.InjuryBlade.Bool(),
		HomicideCrime:   ct.HomicideCrime.Bool(),
		HomicideTraffic: ct.HomicideTraffic.Bool(),
		HomicideOther:   ct.HomicideOther.Bool(),
		Femicide:        ct.Femicide.Bool(),
		TransFemicide:   ct.TransFemicide.Bool(),
		GenderViolence:  ct.GenderViolence.Bool(),
		Other:           ct.Other.Bool(),
	}); err != nil {
		return domainagg.CreateCaseResult{}, err
	}
	if err := r.EventLocations.Create(dbc, &types.EventLocation{
		CriminalEventID: event.ID,
		Address:         normalization.TrimText(in.CriminalEvent.Location.Address),
		DistrictID:      in.CriminalEvent.Location.DistrictID,
	}); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	if err := r.PrimaryResponses.Create(dbc, &types.PrimaryResponseAction{
		CaseID:       c.ID,
		ActionsTaken: normalization.TrimText(in.PrimaryResponseAction),
		AuditUserID:  in.ActorID,
	}); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	abuse := &types.SexualAbuse{
		CaseID: c.ID,
		Kind:   types.DeriveAbuseKind(in.SexualAbuse.Simple.Bool(), in.SexualAbuse.Aggravated.Bool()),
	}
	if err := r.SexualAbuses.Create(dbc, abuse); err != nil {
		return domainagg.CreateCaseResult{}, err
	}
	sd := in.SexualAbuseDetail
	if err := r.SexualAbuseDetails.Create(dbc, &types.SexualAbuseDetail{
		SexualAbuseID:    abuse.ID,
		KitApplied:       sd.KitApplied.Bool(),
		RelationToVictim: sd.RelationToVictim,
		RelationOther:    normalization.TrimText(sd.RelationOther),
		PlaceKind:        sd.PlaceKind,
		PlaceOther:       normalization.TrimText(sd.PlaceOther),
	}); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	victimAddr := addressRow(in.Victim.Address)
	if err := r.Addresses.Create(dbc, victimAddr); err != nil {
		return domainagg.CreateCaseResult{}, err
	}
	victim := &types.Victim{
		CaseID:              c.ID,
		AddressID:           victimAddr.ID,
		NationalID:          normalization.TrimText(in.Victim.NationalID),
		FullName:            normalization.TrimText(in.Victim.FullName),
		GenderID:            in.Victim.GenderID,
		BirthDate:           p.birthDate,
		Phone:               normalization.TrimText(in.Victim.Phone),
		Occupation:          normalization.TrimText(in.Victim.Occupation),
		VictimCountForEvent: 1,
	}
	if err := r.Victims.Create(dbc, victim); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	interviewedAddr := addressRow(in.InterviewedPerson.Address)
	if err := r.Addresses.Create(dbc, interviewedAddr); err != nil {
		return domainagg.CreateCaseResult{}, err
	}
	interviewed := &types.InterviewedPerson{
		VictimID:         victim.ID,
		AddressID:        interviewedAddr.ID,
		FullName:         normalization.TrimText(in.InterviewedPerson.FullName),
		RelationToVictim: normalization.TrimText(in.InterviewedPerson.RelationToVictim),
	}
	if err := r.InterviewedPersons.Create(dbc, interviewed); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	it := in.InterventionTypes
	if err := r.InterventionTypes.Create(dbc, &types.InterventionTypeFlags{
		CaseID:        c.ID,
		Crisis:        it.Crisis.Bool(),
		Phone:         it.Phone.Bool(),
		HomeVisit:     it.HomeVisit.Bool(),
		Psychological: it.Psychological.Bool(),
		Medical:       it.Medical.Bool(),
		Social:        it.Social.Bool(),
		Legal:         it.Legal.Bool(),
		None:          it.None.Bool(),
		Archived:      it.Archived.Bool(),
	}); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	followUp := &types.FollowUp{
		CaseID:   c.ID,
		Occurred: normalization.ToStrictBoolNegatable(in.FollowUp.Occurred),
	}
	if err := r.FollowUps.Create(dbc, followUp); err != nil {
		return domainagg.CreateCaseResult{}, err
	}
	ft := in.FollowUp.Types
	if err := r.FollowUpTypes.Create(dbc, &types.FollowUpTypeFlags{
		FollowUpID:             followUp.ID,
		LegalAdvice:            ft.LegalAdvice.Bool(),
		PsychologicalTreatment: ft.PsychologicalTreatment.Bool(),
		LegalFollowUp:          ft.LegalFollowUp.Bool(),
		CaseArchived:           ft.CaseArchived.Bool(),
	}); err != nil {
		return domainagg.CreateCaseResult{}, err
	}
	if err := r.FollowUpDetails.Create(dbc, &types.FollowUpDetail{
		FollowUpID: followUp.ID,
		Detail:     normalization.TrimText(in.FollowUpDetail),
	}); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	if err := a.appendEvent(dbc, c.ID, types.CaseEventCreated, in.ActorID, map[string]any{"code": code}); err != nil {
		return domainagg.CreateCaseResult{}, err
	}

	return domainagg.CreateCaseResult{
		Code: code,
		IDs: domainagg.CaseIDs{
			CaseID:              c.ID,
			ReferralID:          referral.ID,
			CriminalEventID:     event.ID,
			VictimID:            victim.ID,
			InterviewedPersonID: interviewed.ID,
			FollowUpID:          followUp.ID,
		},
	}, nil
}

func addressRow(in domainagg.AddressInput) *types.Address {
	return &types.Address{
		StreetAndNumber: normalization.TrimText(in.StreetAndNumber),
		Neighborhood:    normalization.TrimText(in.Neighborhood),
		DistrictID:      normalization.IDText(in.DistrictID),
		LocalityID:      normalization.IDText(in.LocalityID),
	}
}
