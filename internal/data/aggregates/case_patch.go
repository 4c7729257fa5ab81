package aggregates

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/intervention-backend/internal/domain"
	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
	"github.com/yungbote/intervention-backend/internal/normalization"
	"github.com/yungbote/intervention-backend/internal/pkg/optional"
	"github.com/yungbote/intervention-backend/internal/pkg/pointers"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
)

type fieldSet map[string]interface{}

func setValue[T any](u fieldSet, column string, v optional.Value[T]) {
	if v.Present {
		u[column] = v.V
	}
}

func setText(u fieldSet, column string, v optional.Value[string]) {
	if v.Present {
		u[column] = normalization.TrimText(v.V)
	}
}

func setFlag(u fieldSet, column string, v optional.Value[normalization.LooseBool]) {
	if v.Present {
		u[column] = v.V.Bool()
	}
}

// setIDText stores catalog ids the way address rows hold them. Null stores
// the same empty text as a missing id on create.
func setIDText(u fieldSet, column string, v optional.Value[int]) {
	if !v.Present {
		return
	}
	id := v.V
	if v.Null {
		id = 0
	}
	u[column] = normalization.IDText(id)
}

// patchValues holds parsed values checked before the transaction opens.
type patchValues struct {
	referredAt *time.Time
	birthDate  optional.Value[*datatypes.Date]
}

func preparePatch(in domainagg.PatchCaseInput) (patchValues, error) {
	var out patchValues
	if in.CaseID == 0 {
		return out, ValidationError("case id is required")
	}
	if in.ActorID == 0 {
		return out, ValidationError("actor id is required")
	}
	if ref := in.Referral; ref != nil {
		if ref.ReasonCode.Present && (ref.ReasonCode.Null || ref.ReasonCode.V == 0) {
			return out, ValidationError("referral.reasonCode cannot be cleared")
		}
		if ref.ReferralTimestamp.Present {
			t, err := normalization.ParseTimestamp(ref.ReferralTimestamp.V)
			if err != nil {
				return out, ValidationError(fmt.Sprintf("referral.referralTimestamp: %v", err))
			}
			out.referredAt = &t
		}
	}
	if ev := in.CriminalEvent; ev != nil && ev.AttackerCount.Present && ev.AttackerCount.V < 0 {
		return out, ValidationError("criminalEvent.attackerCount must be >= 0")
	}
	if v := in.Victim; v != nil && v.BirthDate.Present {
		day, err := normalization.ParseOptionalDate(v.BirthDate.V)
		if err != nil {
			return out, ValidationError(fmt.Sprintf("victim.birthDate: %v", err))
		}
		var d *datatypes.Date
		if day != nil {
			dd := datatypes.Date(*day)
			d = &dd
		}
		out.birthDate = optional.Of(d)
	}
	return out, nil
}

// casePatch accumulates which present sections were written and which were
// skipped because their target row does not exist. Missing rows are never
// an error.
type casePatch struct {
	dbc     dbctx.Context
	applied []string
	skipped []string
}

func (p *casePatch) skip(section string) {
	p.skipped = append(p.skipped, section)
}

func (p *casePatch) write(section string, id uint, u fieldSet, update func(dbctx.Context, uint, map[string]interface{}) error) error {
	if len(u) == 0 {
		return nil
	}
	if err := update(p.dbc, id, u); err != nil {
		return fmt.Errorf("patch %s: %w", section, err)
	}
	p.applied = append(p.applied, section)
	return nil
}

// Patch merges the sparse document into the case. The case is looked up
// before any transaction; everything after runs in one transaction and the
// joined aggregate is re-read inside it.
func (a *CaseAggregate) Patch(ctx context.Context, in domainagg.PatchCaseInput) (domainagg.PatchCaseResult, error) {
	values, err := preparePatch(in)
	if err != nil {
		return domainagg.PatchCaseResult{}, failBeforeWrite(a.deps.Base, opCasePatch, err)
	}

	current, err := a.deps.Repos.Cases.GetByID(dbctx.Context{Ctx: ctx}, in.CaseID)
	if err != nil {
		return domainagg.PatchCaseResult{}, failBeforeWrite(a.deps.Base, opCasePatch, err)
	}
	if current == nil {
		return domainagg.PatchCaseResult{}, failBeforeWrite(a.deps.Base, opCasePatch,
			domainagg.NewError(domainagg.CodeNotFound, opCasePatch, fmt.Sprintf("case %d not found", in.CaseID), nil))
	}
	if current.IsTerminal() {
		return domainagg.PatchCaseResult{}, failBeforeWrite(a.deps.Base, opCasePatch,
			InvariantError(fmt.Sprintf("case %d is deleted", in.CaseID)))
	}

	var out domainagg.PatchCaseResult
	err = executeWrite(ctx, a.deps.Base, opCasePatch, func(dbc dbctx.Context) error {
		p := &casePatch{dbc: dbc}
		if err := a.patchInTx(p, current, in, values); err != nil {
			return err
		}
		if len(p.applied) > 0 || len(p.skipped) > 0 {
			payload := map[string]any{"applied": p.applied, "skipped": p.skipped}
			if err := a.appendEvent(dbc, current.ID, types.CaseEventPatched, in.ActorID, payload); err != nil {
				return err
			}
		}
		agg, err := a.deps.Repos.Cases.GetAggregate(dbc, current.ID)
		if err != nil {
			return err
		}
		if agg == nil {
			return domainagg.NewError(domainagg.CodeNotFound, opCasePatch, fmt.Sprintf("case %d vanished during patch", current.ID), nil)
		}
		out = domainagg.PatchCaseResult{Case: agg, Applied: p.applied, Skipped: p.skipped}
		return nil
	})
	if err != nil {
		return domainagg.PatchCaseResult{}, err
	}
	a.deps.Base.Log.Info("case patched",
		"case_id", current.ID,
		"applied", out.Applied,
		"skipped", out.Skipped,
		"actor_id", in.ActorID,
	)
	return out, nil
}

func (a *CaseAggregate) patchInTx(p *casePatch, c *types.Case, in domainagg.PatchCaseInput, values patchValues) error {
	r := a.deps.Repos
	dbc := p.dbc

	if h := in.Case; h != nil {
		u := fieldSet{}
		if h.Coordinator.Present {
			u["coordinator"] = pointers.Map(h.Coordinator.V, normalization.TrimText)
		}
		if h.Operator.Present {
			u["operator"] = pointers.Map(h.Operator.V, normalization.TrimText)
		}
		setText(u, "summary", h.Summary)
		if err := p.write(domainagg.SectionCase, c.ID, u, r.Cases.UpdateFields); err != nil {
			return err
		}
	}

	if ref := in.Referral; ref != nil {
		row, err := r.Referrals.GetByCaseID(dbc, c.ID)
		if err != nil {
			return err
		}
		if row == nil {
			p.skip(domainagg.SectionReferral)
		} else {
			u := fieldSet{}
			setText(u, "referrer_name", ref.ReferrerName)
			if ref.ReasonCode.Present {
				ok, err := r.Catalog.ReferralReasonExists(dbc, ref.ReasonCode.V)
				if err != nil {
					return err
				}
				if !ok {
					return PreconditionError(fmt.Sprintf("unknown referral reason %d", ref.ReasonCode.V))
				}
				u["reason_id"] = ref.ReasonCode.V
			}
			if values.referredAt != nil {
				u["referred_at"] = *values.referredAt
			}
			if err := p.write(domainagg.SectionReferral, row.ID, u, r.Referrals.UpdateFields); err != nil {
				return err
			}
		}
	}

	if ev := in.CriminalEvent; ev != nil {
		if err := a.patchCriminalEvent(p, c.ID, ev); err != nil {
			return err
		}
	}

	if in.PrimaryResponseAction.Present {
		row, err := r.PrimaryResponses.GetByCaseID(dbc, c.ID)
		if err != nil {
			return err
		}
		if row == nil {
			p.skip(domainagg.SectionPrimaryResponseAction)
		} else {
			u := fieldSet{}
			setText(u, "actions_taken", in.PrimaryResponseAction)
			if err := p.write(domainagg.SectionPrimaryResponseAction, row.ID, u, r.PrimaryResponses.UpdateFields); err != nil {
				return err
			}
		}
	}

	if in.SexualAbuse != nil || in.SexualAbuseDetail != nil {
		if err := a.patchSexualAbuse(p, c.ID, in.SexualAbuse, in.SexualAbuseDetail); err != nil {
			return err
		}
	}

	if in.Victim != nil {
		if err := a.patchVictim(p, c.ID, in.Victim, values); err != nil {
			return err
		}
	}

	if in.InterviewedPerson != nil {
		if err := a.patchInterviewedPerson(p, c.ID, in.InterviewedPerson); err != nil {
			return err
		}
	}

	if it := in.InterventionTypes; it != nil {
		row, err := r.InterventionTypes.GetByCaseID(dbc, c.ID)
		if err != nil {
			return err
		}
		if row == nil {
			p.skip(domainagg.SectionInterventionTypes)
		} else {
			u := fieldSet{}
			setFlag(u, "crisis", it.Crisis)
			setFlag(u, "phone", it.Phone)
			setFlag(u, "home_visit", it.HomeVisit)
			setFlag(u, "psychological", it.Psychological)
			setFlag(u, "medical", it.Medical)
			setFlag(u, "social", it.Social)
			setFlag(u, "legal", it.Legal)
			setFlag(u, "none", it.None)
			setFlag(u, "archived", it.Archived)
			if err := p.write(domainagg.SectionInterventionTypes, row.ID, u, r.InterventionTypes.UpdateFields); err != nil {
				return err
			}
		}
	}

	if in.FollowUp != nil || in.FollowUpDetail.Present {
		if err := a.patchFollowUp(p, c.ID, in.FollowUp, in.FollowUpDetail); err != nil {
			return err
		}
	}
	return nil
}

func (a *CaseAggregate) patchCriminalEvent(p *casePatch, caseID uint, ev *domainagg.CriminalEventPatch) error {
	r := a.deps.Repos
	row, err := r.CriminalEvents.GetByCaseID(p.dbc, caseID)
	if err != nil {
		return err
	}
	if row == nil {
		p.skip(domainagg.SectionCriminalEvent)
		return nil
	}

	u := fieldSet{}
	setText(u, "case_file_number", ev.CaseFileNumber)
	setValue(u, "attacker_count", ev.AttackerCount)
	if err := p.write(domainagg.SectionCriminalEvent, row.ID, u, r.CriminalEvents.UpdateFields); err != nil {
		return err
	}

	if ct := ev.CrimeTypes; ct != nil {
		flags, err := r.CrimeTypes.GetByCriminalEventID(p.dbc, row.ID)
		if err != nil {
			return err
		}
		if flags == nil {
			p.skip(domainagg.SectionCrimeTypes)
		} else {
			u := fieldSet{}
			setFlag(u, "robbery", ct.Robbery)
			setFlag(u, "robbery_firearm", ct.RobberyFirearm)
			setFlag(u, "robbery_blade", ct.RobberyBlade)
			setFlag(u, "threats", ct.Threats)
			setFlag(u, "injury", ct.Injury)
			setFlag(u, "injury_firearm", ct.InjuryFirearm)
			setFlag(u, "injury_blade", ct.InjuryBlade)
			setFlag(u, "homicide_crime", ct.HomicideCrime)
			setFlag(u, "homicide_traffic", ct.HomicideTraffic)
			setFlag(u, "homicide_other", ct.HomicideOther)
			setFlag(u, "femicide", ct.Femicide)
			setFlag(u, "trans_femicide", ct.TransFemicide)
			setFlag(u, "gender_violence", ct.GenderViolence)
			setFlag(u, "other", ct.Other)
			if err := p.write(domainagg.SectionCrimeTypes, flags.ID, u, r.CrimeTypes.UpdateFields); err != nil {
				return err
			}
		}
	}

	if loc := ev.Location; loc != nil {
		lrow, err := r.EventLocations.GetByCriminalEventID(p.dbc, row.ID)
		if err != nil {
			return err
		}
		if lrow == nil {
			p.skip(domainagg.SectionEventLocation)
		} else {
			u := fieldSet{}
			setText(u, "address", loc.Address)
			setValue(u, "district_id", loc.DistrictID)
			if err := p.write(domainagg.SectionEventLocation, lrow.ID, u, r.EventLocations.UpdateFields); err != nil {
				return err
			}
		}
	}
	return nil
}

// patchSexualAbuse recomputes the abuse kind only when simple or aggravated
// is supplied, starting from the stored kind. A truthy simple sets 1 and a
// truthy aggravated sets 2, applied in that order.
func (a *CaseAggregate) patchSexualAbuse(p *casePatch, caseID uint, sa *domainagg.SexualAbusePatch, detail *domainagg.SexualAbuseDetailPatch) error {
	r := a.deps.Repos
	row, err := r.SexualAbuses.GetByCaseID(p.dbc, caseID)
	if err != nil {
		return err
	}
	if row == nil {
		if sa != nil {
			p.skip(domainagg.SectionSexualAbuse)
		}
		if detail != nil {
			p.skip(domainagg.SectionSexualAbuseDetail)
		}
		return nil
	}

	if sa != nil && (sa.Simple.Present || sa.Aggravated.Present) {
		kind := row.Kind
		if sa.Simple.Present && sa.Simple.V.Bool() {
			kind = types.AbuseSimple
		}
		if sa.Aggravated.Present && sa.Aggravated.V.Bool() {
			kind = types.AbuseAggravated
		}
		if err := p.write(domainagg.SectionSexualAbuse, row.ID, fieldSet{"kind": kind}, r.SexualAbuses.UpdateFields); err != nil {
			return err
		}
	}

	if detail != nil {
		drow, err := r.SexualAbuseDetails.GetBySexualAbuseID(p.dbc, row.ID)
		if err != nil {
			return err
		}
		if drow == nil {
			p.skip(domainagg.SectionSexualAbuseDetail)
			return nil
		}
		u := fieldSet{}
		setFlag(u, "kit_applied", detail.KitApplied)
		setValue(u, "relation_to_victim", detail.RelationToVictim)
		setText(u, "relation_other", detail.RelationOther)
		setValue(u, "place_kind", detail.PlaceKind)
		setText(u, "place_other", detail.PlaceOther)
		if err := p.write(domainagg.SectionSexualAbuseDetail, drow.ID, u, r.SexualAbuseDetails.UpdateFields); err != nil {
			return err
		}
	}
	return nil
}

func (a *CaseAggregate) patchVictim(p *casePatch, caseID uint, v *domainagg.VictimPatch, values patchValues) error {
	r := a.deps.Repos
	row, err := r.Victims.GetByCaseID(p.dbc, caseID)
	if err != nil {
		return err
	}
	if row == nil {
		p.skip(domainagg.SectionVictim)
		return nil
	}

	u := fieldSet{}
	setText(u, "national_id", v.NationalID)
	setText(u, "full_name", v.FullName)
	setValue(u, "gender_id", v.GenderID)
	if values.birthDate.Present {
		u["birth_date"] = values.birthDate.V
	}
	setText(u, "phone", v.Phone)
	setText(u, "occupation", v.Occupation)
	if err := p.write(domainagg.SectionVictim, row.ID, u, r.Victims.UpdateFields); err != nil {
		return err
	}

	if v.Address != nil {
		return a.patchAddress(p, domainagg.SectionVictimAddress, row.AddressID, v.Address)
	}
	return nil
}

func (a *CaseAggregate) patchInterviewedPerson(p *casePatch, caseID uint, ip *domainagg.InterviewedPersonPatch) error {
	r := a.deps.Repos
	victim, err := r.Victims.GetByCaseID(p.dbc, caseID)
	if err != nil {
		return err
	}
	if victim == nil {
		p.skip(domainagg.SectionInterviewedPerson)
		return nil
	}
	row, err := r.InterviewedPersons.GetByVictimID(p.dbc, victim.ID)
	if err != nil {
		return err
	}
	if row == nil {
		p.skip(domainagg.SectionInterviewedPerson)
		return nil
	}

	u := fieldSet{}
	setText(u, "full_name", ip.FullName)
	setText(u, "relation_to_victim", ip.RelationToVictim)
	if err := p.write(domainagg.SectionInterviewedPerson, row.ID, u, r.InterviewedPersons.UpdateFields); err != nil {
		return err
	}

	if ip.Address != nil {
		return a.patchAddress(p, domainagg.SectionInterviewedAddress, row.AddressID, ip.Address)
	}
	return nil
}

func (a *CaseAggregate) patchAddress(p *casePatch, section string, addressID uint, ap *domainagg.AddressPatch) error {
	r := a.deps.Repos
	if addressID == 0 {
		p.skip(section)
		return nil
	}
	row, err := r.Addresses.GetByID(p.dbc, addressID)
	if err != nil {
		return err
	}
	if row == nil {
		p.skip(section)
		return nil
	}
	u := fieldSet{}
	setText(u, "street_and_number", ap.StreetAndNumber)
	setText(u, "neighborhood", ap.Neighborhood)
	setIDText(u, "district_id", ap.DistrictID)
	setIDText(u, "locality_id", ap.LocalityID)
	return p.write(section, row.ID, u, r.Addresses.UpdateFields)
}

func (a *CaseAggregate) patchFollowUp(p *casePatch, caseID uint, fu *domainagg.FollowUpPatch, detail optional.Value[string]) error {
	r := a.deps.Repos
	row, err := r.FollowUps.GetByCaseID(p.dbc, caseID)
	if err != nil {
		return err
	}
	if row == nil {
		if fu != nil {
			p.skip(domainagg.SectionFollowUp)
		}
		if detail.Present {
			p.skip(domainagg.SectionFollowUpDetail)
		}
		return nil
	}

	if fu != nil {
		if fu.Occurred.Present {
			u := fieldSet{"occurred": fu.Occurred.V.Bool()}
			if err := p.write(domainagg.SectionFollowUp, row.ID, u, r.FollowUps.UpdateFields); err != nil {
				return err
			}
		}
		if ft := fu.Types; ft != nil {
			frow, err := r.FollowUpTypes.GetByFollowUpID(p.dbc, row.ID)
			if err != nil {
				return err
			}
			if frow == nil {
				p.skip(domainagg.SectionFollowUpTypes)
			} else {
				u := fieldSet{}
				setFlag(u, "legal_advice", ft.LegalAdvice)
				setFlag(u, "psychological_treatment", ft.PsychologicalTreatment)
				setFlag(u, "legal_follow_up", ft.LegalFollowUp)
				setFlag(u, "case_archived", ft.CaseArchived)
				if err := p.write(domainagg.SectionFollowUpTypes, frow.ID, u, r.FollowUpTypes.UpdateFields); err != nil {
					return err
				}
			}
		}
	}

	if detail.Present {
		drow, err := r.FollowUpDetails.GetByFollowUpID(p.dbc, row.ID)
		if err != nil {
			return err
		}
		if drow == nil {
			p.skip(domainagg.SectionFollowUpDetail)
			return nil
		}
		u := fieldSet{}
		setText(u, "detail", detail)
		if err := p.write(domainagg.SectionFollowUpDetail, drow.ID, u, r.FollowUpDetails.UpdateFields); err != nil {
			return err
		}
	}
	return nil
}
