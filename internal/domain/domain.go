package domain

import "github.com/yungbote/intervention-backend/internal/domain/intervention"

type CaseStatus = intervention.CaseStatus

const (
	CaseStatusActive   = intervention.StatusActive
	CaseStatusClosed   = intervention.StatusClosed
	CaseStatusArchived = intervention.StatusArchived
	CaseStatusDeleted  = intervention.StatusDeleted
)

type AbuseKind = intervention.AbuseKind

const (
	AbuseNone       = intervention.AbuseNone
	AbuseSimple     = intervention.AbuseSimple
	AbuseAggravated = intervention.AbuseAggravated
)

// DeriveAbuseKind folds the simple and aggravated flags into one kind.
func DeriveAbuseKind(simple, aggravated bool) AbuseKind {
	return intervention.DeriveAbuseKind(simple, aggravated)
}

type CaseEventKind = intervention.CaseEventKind

const (
	CaseEventCreated       = intervention.CaseEventCreated
	CaseEventPatched       = intervention.CaseEventPatched
	CaseEventStatusChanged = intervention.CaseEventStatusChanged
)

type Case = intervention.Case
type Referral = intervention.Referral
type CriminalEvent = intervention.CriminalEvent
type CrimeTypeFlags = intervention.CrimeTypeFlags
type EventLocation = intervention.EventLocation
type PrimaryResponseAction = intervention.PrimaryResponseAction
type SexualAbuse = intervention.SexualAbuse
type SexualAbuseDetail = intervention.SexualAbuseDetail
type Address = intervention.Address
type Victim = intervention.Victim
type InterviewedPerson = intervention.InterviewedPerson
type InterventionTypeFlags = intervention.InterventionTypeFlags
type FollowUp = intervention.FollowUp
type FollowUpTypeFlags = intervention.FollowUpTypeFlags
type FollowUpDetail = intervention.FollowUpDetail
type CaseEvent = intervention.CaseEvent

type ReferralReason = intervention.ReferralReason
type Gender = intervention.Gender
type District = intervention.District
type Locality = intervention.Locality

// AllModels lists every persisted type in migration order.
func AllModels() []any {
	return []any{
		&ReferralReason{},
		&Gender{},
		&District{},
		&Locality{},

		&Case{},
		&Referral{},
		&CriminalEvent{},
		&CrimeTypeFlags{},
		&EventLocation{},
		&PrimaryResponseAction{},
		&SexualAbuse{},
		&SexualAbuseDetail{},
		&Address{},
		&Victim{},
		&InterviewedPerson{},
		&InterventionTypeFlags{},
		&FollowUp{},
		&FollowUpTypeFlags{},
		&FollowUpDetail{},
		&CaseEvent{},
	}
}
