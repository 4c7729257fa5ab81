package aggregates

import (
	"context"

	"github.com/yungbote/intervention-backend/internal/domain/intervention"
	"github.com/yungbote/intervention-backend/internal/normalization"
	"github.com/yungbote/intervention-backend/internal/pkg/optional"
)

var CaseAggregateContract = Contract{
	Name:             "Intervention.CaseAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	OwnedTables: []string{
		intervention.Case{}.TableName(),
		intervention.Referral{}.TableName(),
		intervention.CriminalEvent{}.TableName(),
		intervention.CrimeTypeFlags{}.TableName(),
		intervention.EventLocation{}.TableName(),
		intervention.PrimaryResponseAction{}.TableName(),
		intervention.SexualAbuse{}.TableName(),
		intervention.SexualAbuseDetail{}.TableName(),
		intervention.Address{}.TableName(),
		intervention.Victim{}.TableName(),
		intervention.InterviewedPerson{}.TableName(),
		intervention.InterventionTypeFlags{}.TableName(),
		intervention.FollowUp{}.TableName(),
		intervention.FollowUpTypeFlags{}.TableName(),
		intervention.FollowUpDetail{}.TableName(),
		intervention.CaseEvent{}.TableName(),
	},
	Notes: "Owns atomic creation and sparse merge of a case with its referral, event, victim, abuse, intervention and follow-up records.",
}

// CaseAggregate owns the multi-table invariants of an intervention case.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation,
// CodeRetryable, CodeExhausted, CodeInternal.
type CaseAggregate interface {
	Aggregate

	// Create inserts a case and every owned sub-entity in one transaction.
	Create(ctx context.Context, in CreateCaseInput) (CreateCaseResult, error)

	// Patch merges a sparse document into an existing case in one transaction
	// and returns the freshly joined aggregate.
	Patch(ctx context.Context, in PatchCaseInput) (PatchCaseResult, error)

	// Transition applies a status lifecycle change as a single guarded row update.
	Transition(ctx context.Context, in TransitionInput) (*intervention.Case, error)
}

// CreateCaseInput is a fully populated case submission.
type CreateCaseInput struct {
	// ActorID is the authenticated operator; it becomes the audit user of
	// the primary response action.
	ActorID uint `json:"-"`

	Case                  CaseHeaderInput        `json:"case"`
	Referral              ReferralInput          `json:"referral"`
	CriminalEvent         CriminalEventInput     `json:"criminalEvent"`
	PrimaryResponseAction string                 `json:"primaryResponseAction"`
	SexualAbuse           SexualAbuseInput       `json:"sexualAbuse"`
	SexualAbuseDetail     SexualAbuseDetailInput `json:"sexualAbuseDetail"`
	Victim                VictimInput            `json:"victim"`
	InterviewedPerson     InterviewedPersonInput `json:"interviewedPerson"`
	InterventionTypes     InterventionTypesInput `json:"interventionTypeFlags"`
	FollowUp              FollowUpInput          `json:"followUp"`
	FollowUpDetail        string                 `json:"followUpDetail"`
}

type CaseHeaderInput struct {
	Coordinator *string `json:"coordinator"`
	Operator    *string `json:"operator"`
	Summary     string  `json:"summary"`
}

type ReferralInput struct {
	ReasonCode        uint   `json:"reasonCode" binding:"required"`
	ReferrerName      string `json:"referrerName"`
	ReferralTimestamp string `json:"referralTimestamp" binding:"required"`
}

type CriminalEventInput struct {
	CaseFileNumber string             `json:"caseFileNumber"`
	AttackerCount  int                `json:"attackerCount" binding:"gte=0"`
	CrimeTypes     CrimeTypesInput    `json:"crimeTypes"`
	Location       EventLocationInput `json:"location"`
}

type CrimeTypesInput struct {
	Robbery         normalization.LooseBool `json:"robbery"`
	RobberyFirearm  normalization.LooseBool `json:"robberyFirearm"`
	RobberyBlade    normalization.LooseBool `json:"robberyBlade"`
	Threats         normalization.LooseBool `json:"threats"`
	Injury          normalization.LooseBool `json:"injury"`
	InjuryFirearm   normalization.LooseBool `json:"injuryFirearm"`
	InjuryBlade     normalization.LooseBool `json:"injuryBlade"`
	HomicideCrime   normalization.LooseBool `json:"homicideCrime"`
	HomicideTraffic normalization.LooseBool `json:"homicideTraffic"`
	HomicideOther   normalization.LooseBool `json:"homicideOther"`
	Femicide        normalization.LooseBool `json:"femicide"`
	TransFemicide   normalization.LooseBool `json:"transFemicide"`
	GenderViolence  normalization.LooseBool `json:"genderViolence"`
	Other           normalization.LooseBool `json:"other"`
}

type EventLocationInput struct {
	Address    string `json:"address"`
	DistrictID int    `json:"districtId"`
}

type SexualAbuseInput struct {
	Simple     normalization.LooseBool `json:"simple"`
	Aggravated normalization.LooseBool `json:"aggravated"`
}

type SexualAbuseDetailInput struct {
	KitApplied       normalization.LooseBool `json:"kitApplied"`
	RelationToVictim int                     `json:"relationToVictim"`
	RelationOther    string                  `json:"relationOther"`
	PlaceKind        int                     `json:"placeKind"`
	PlaceOther       string                  `json:"placeOther"`
}

type AddressInput struct {
	StreetAndNumber string `json:"streetAndNumber"`
	Neighborhood    string `json:"neighborhood"`
	DistrictID      int    `json:"districtId"`
	LocalityID      int    `json:"localityId"`
}

type VictimInput struct {
	NationalID string       `json:"nationalId"`
	FullName   string       `json:"fullName" binding:"required"`
	GenderID   int          `json:"genderId"`
	BirthDate  string       `json:"birthDate"`
	Phone      string       `json:"phone"`
	Occupation string       `json:"occupation"`
	Address    AddressInput `json:"address"`
}

type InterviewedPersonInput struct {
	FullName         string       `json:"fullName"`
	RelationToVictim string       `json:"relationToVictim"`
	Address          AddressInput `json:"address"`
}

type InterventionTypesInput struct {
	Crisis        normalization.LooseBool `json:"crisis"`
	Phone         normalization.LooseBool `json:"phone"`
	HomeVisit     normalization.LooseBool `json:"homeVisit"`
	Psychological normalization.LooseBool `json:"psychological"`
	Medical       normalization.LooseBool `json:"medical"`
	Social        normalization.LooseBool `json:"social"`
	Legal         normalization.LooseBool `json:"legal"`
	None          normalization.LooseBool `json:"none"`
	Archived      normalization.LooseBool `json:"archived"`
}

type FollowUpInput struct {
	// Occurred arrives as a boolean or as a legacy text token.
	Occurred any                `json:"occurred"`
	Types    FollowUpTypesInput `json:"typeFlags"`
}

type FollowUpTypesInput struct {
	LegalAdvice            normalization.LooseBool `json:"legalAdvice"`
	PsychologicalTreatment normalization.LooseBool `json:"psychologicalTreatment"`
	LegalFollowUp          normalization.LooseBool `json:"legalFollowUp"`
	CaseArchived           normalization.LooseBool `json:"caseArchived"`
}

type CaseIDs struct {
	CaseID              uint `json:"caseId"`
	ReferralID          uint `json:"referralId"`
	CriminalEventID     uint `json:"criminalEventId"`
	VictimID            uint `json:"victimId"`
	InterviewedPersonID uint `json:"interviewedPersonId"`
	FollowUpID          uint `json:"followUpId"`
}

type CreateCaseResult struct {
	Code string  `json:"code"`
	IDs  CaseIDs `json:"ids"`
}

// PatchCaseInput is a deep-partial case document. A nil section is absent;
// within a section only present fields are written.
type PatchCaseInput struct {
	CaseID  uint `json:"-"`
	ActorID uint `json:"-"`

	Case                  *CaseHeaderPatch        `json:"case"`
	Referral              *ReferralPatch          `json:"referral"`
	CriminalEvent         *CriminalEventPatch     `json:"criminalEvent"`
	PrimaryResponseAction optional.Value[string]  `json:"primaryResponseAction"`
	SexualAbuse           *SexualAbusePatch       `json:"sexualAbuse"`
	SexualAbuseDetail     *SexualAbuseDetailPatch `json:"sexualAbuseDetail"`
	Victim                *VictimPatch            `json:"victim"`
	InterviewedPerson     *InterviewedPersonPatch `json:"interviewedPerson"`
	InterventionTypes     *InterventionTypesPatch `json:"interventionTypeFlags"`
	FollowUp              *FollowUpPatch          `json:"followUp"`
	FollowUpDetail        optional.Value[string]  `json:"followUpDetail"`
}

type CaseHeaderPatch struct {
	Coordinator optional.Value[*string] `json:"coordinator"`
	Operator    optional.Value[*string] `json:"operator"`
	Summary     optional.Value[string]  `json:"summary"`
}

type ReferralPatch struct {
	ReasonCode        optional.Value[uint]   `json:"reasonCode"`
	ReferrerName      optional.Value[string] `json:"referrerName"`
	ReferralTimestamp optional.Value[string] `json:"referralTimestamp"`
}

type CriminalEventPatch struct {
	CaseFileNumber optional.Value[string] `json:"caseFileNumber"`
	AttackerCount  optional.Value[int]    `json:"attackerCount"`
	CrimeTypes     *CrimeTypesPatch       `json:"crimeTypes"`
	Location       *EventLocationPatch    `json:"location"`
}

type CrimeTypesPatch struct {
	Robbery         optional.Value[normalization.LooseBool] `json:"robbery"`
	RobberyFirearm  optional.Value[normalization.LooseBool] `json:"robberyFirearm"`
	RobberyBlade    optional.Value[normalization.LooseBool] `json:"robberyBlade"`
	Threats         optional.Value[normalization.LooseBool] `json:"threats"`
	Injury          optional.Value[normalization.LooseBool] `json:"injury"`
	InjuryFirearm   optional.Value[normalization.LooseBool] `json:"injuryFirearm"`
	InjuryBlade     optional.Value[normalization.LooseBool] `json:"injuryBlade"`
	HomicideCrime   optional.Value[normalization.LooseBool] `json:"homicideCrime"`
	HomicideTraffic optional.Value[normalization.LooseBool] `json:"homicideTraffic"`
	HomicideOther   optional.Value[normalization.LooseBool] `json:"homicideOther"`
	Femicide        optional.Value[normalization.LooseBool] `json:"femicide"`
	TransFemicide   optional.Value[normalization.LooseBool] `json:"transFemicide"`
	GenderViolence  optional.Value[normalization.LooseBool] `json:"genderViolence"`
	Other           optional.Value[normalization.LooseBool] `json:"other"`
}

type EventLocationPatch struct {
	Address    optional.Value[string] `json:"address"`
	DistrictID optional.Value[int]    `json:"districtId"`
}

type SexualAbusePatch struct {
	Simple     optional.Value[normalization.LooseBool] `json:"simple"`
	Aggravated optional.Value[normalization.LooseBool] `json:"aggravated"`
}

type SexualAbuseDetailPatch struct {
	KitApplied       optional.Value[normalization.LooseBool] `json:"kitApplied"`
	RelationToVictim optional.Value[int]                     `json:"relationToVictim"`
	RelationOther    optional.Value[string]                  `json:"relationOther"`
	PlaceKind        optional.Value[int]                     `json:"placeKind"`
	PlaceOther       optional.Value[string]                  `json:"placeOther"`
}

type AddressPatch struct {
	StreetAndNumber optional.Value[string] `json:"streetAndNumber"`
	Neighborhood    optional.Value[string] `json:"neighborhood"`
	DistrictID      optional.Value[int]    `json:"districtId"`
	LocalityID      optional.Value[int]    `json:"localityId"`
}

type VictimPatch struct {
	NationalID optional.Value[string] `json:"nationalId"`
	FullName   optional.Value[string] `json:"fullName"`
	GenderID   optional.Value[int]    `json:"genderId"`
	BirthDate  optional.Value[string] `json:"birthDate"`
	Phone      optional.Value[string] `json:"phone"`
	Occupation optional.Value[string] `json:"occupation"`
	Address    *AddressPatch          `json:"address"`
}

type InterviewedPersonPatch struct {
	FullName         optional.Value[string] `json:"fullName"`
	RelationToVictim optional.Value[string] `json:"relationToVictim"`
	Address          *AddressPatch          `json:"address"`
}

type InterventionTypesPatch struct {
	Crisis        optional.Value[normalization.LooseBool] `json:"crisis"`
	Phone         optional.Value[normalization.LooseBool] `json:"phone"`
	HomeVisit     optional.Value[normalization.LooseBool] `json:"homeVisit"`
	Psychological optional.Value[normalization.LooseBool] `json:"psychological"`
	Medical       optional.Value[normalization.LooseBool] `json:"medical"`
	Social        optional.Value[normalization.LooseBool] `json:"social"`
	Legal         optional.Value[normalization.LooseBool] `json:"legal"`
	None          optional.Value[normalization.LooseBool] `json:"none"`
	Archived      optional.Value[normalization.LooseBool] `json:"archived"`
}

type FollowUpPatch struct {
	Occurred optional.Value[normalization.NegatableBool] `json:"occurred"`
	Types    *FollowUpTypesPatch                         `json:"typeFlags"`
}

type FollowUpTypesPatch struct {
	LegalAdvice            optional.Value[normalization.LooseBool] `json:"legalAdvice"`
	PsychologicalTreatment optional.Value[normalization.LooseBool] `json:"psychologicalTreatment"`
	LegalFollowUp          optional.Value[normalization.LooseBool] `json:"legalFollowUp"`
	CaseArchived           optional.Value[normalization.LooseBool] `json:"caseArchived"`
}

// Patch section names as reported in results and case events.
const (
	SectionCase                  = "case"
	SectionReferral              = "referral"
	SectionCriminalEvent         = "criminalEvent"
	SectionCrimeTypes            = "criminalEvent.crimeTypes"
	SectionEventLocation         = "criminalEvent.location"
	SectionPrimaryResponseAction = "primaryResponseAction"
	SectionSexualAbuse           = "sexualAbuse"
	SectionSexualAbuseDetail     = "sexualAbuseDetail"
	SectionVictim                = "victim"
	SectionVictimAddress         = "victim.address"
	SectionInterviewedPerson     = "interviewedPerson"
	SectionInterviewedAddress    = "interviewedPerson.address"
	SectionInterventionTypes     = "interventionTypeFlags"
	SectionFollowUp              = "followUp"
	SectionFollowUpTypes         = "followUp.typeFlags"
	SectionFollowUpDetail        = "followUpDetail"
)

type PatchCaseResult struct {
	Case *intervention.Case `json:"case"`
	// Applied lists sections written; Skipped lists present sections whose
	// target row did not exist.
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped,omitempty"`
}

// Transition names a status lifecycle change.
type Transition string

const (
	TransitionClose      Transition = "close"
	TransitionArchive    Transition = "archive"
	TransitionDelete     Transition = "delete"
	TransitionReactivate Transition = "reactivate"
)

type TransitionInput struct {
	CaseID     uint
	ActorID    uint
	Transition Transition
}
