package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/intervention-backend/internal/data/repos/intervention"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type Catalog = intervention.Catalog

type CaseRepo = intervention.CaseRepo
type ReferralRepo = intervention.ReferralRepo
type CriminalEventRepo = intervention.CriminalEventRepo
type CrimeTypeFlagsRepo = intervention.CrimeTypeFlagsRepo
type EventLocationRepo = intervention.EventLocationRepo
type PrimaryResponseActionRepo = intervention.PrimaryResponseActionRepo
type SexualAbuseRepo = intervention.SexualAbuseRepo
type SexualAbuseDetailRepo = intervention.SexualAbuseDetailRepo
type AddressRepo = intervention.AddressRepo
type VictimRepo = intervention.VictimRepo
type InterviewedPersonRepo = intervention.InterviewedPersonRepo
type InterventionTypeFlagsRepo = intervention.InterventionTypeFlagsRepo
type FollowUpRepo = intervention.FollowUpRepo
type FollowUpTypeFlagsRepo = intervention.FollowUpTypeFlagsRepo
type FollowUpDetailRepo = intervention.FollowUpDetailRepo
type CaseEventRepo = intervention.CaseEventRepo
type CatalogRepo = intervention.CatalogRepo

func NewCaseRepo(db *gorm.DB, baseLog *logger.Logger) CaseRepo {
	return intervention.NewCaseRepo(db, baseLog)
}
func NewReferralRepo(db *gorm.DB, baseLog *logger.Logger) ReferralRepo {
	return intervention.NewReferralRepo(db, baseLog)
}
func NewCriminalEventRepo(db *gorm.DB, baseLog *logger.Logger) CriminalEventRepo {
	return intervention.NewCriminalEventRepo(db, baseLog)
}
func NewCrimeTypeFlagsRepo(db *gorm.DB, baseLog *logger.Logger) CrimeTypeFlagsRepo {
	return intervention.NewCrimeTypeFlagsRepo(db, baseLog)
}
func NewEventLocationRepo(db *gorm.DB, baseLog *logger.Logger) EventLocationRepo {
	return intervention.NewEventLocationRepo(db, baseLog)
}
func NewPrimaryResponseActionRepo(db *gorm.DB, baseLog *logger.Logger) PrimaryResponseActionRepo {
	return intervention.NewPrimaryResponseActionRepo(db, baseLog)
}
func NewSexualAbuseRepo(db *gorm.DB, baseLog *logger.Logger) SexualAbuseRepo {
	return intervention.NewSexualAbuseRepo(db, baseLog)
}
func NewSexualAbuseDetailRepo(db *gorm.DB, baseLog *logger.Logger) SexualAbuseDetailRepo {
	return intervention.NewSexualAbuseDetailRepo(db, baseLog)
}
func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return intervention.NewAddressRepo(db, baseLog)
}
func NewVictimRepo(db *gorm.DB, baseLog *logger.Logger) VictimRepo {
	return intervention.NewVictimRepo(db, baseLog)
}
func NewInterviewedPersonRepo(db *gorm.DB, baseLog *logger.Logger) InterviewedPersonRepo {
	return intervention.NewInterviewedPersonRepo(db, baseLog)
}
func NewInterventionTypeFlagsRepo(db *gorm.DB, baseLog *logger.Logger) InterventionTypeFlagsRepo {
	return intervention.NewInterventionTypeFlagsRepo(db, baseLog)
}
func NewFollowUpRepo(db *gorm.DB, baseLog *logger.Logger) FollowUpRepo {
	return intervention.NewFollowUpRepo(db, baseLog)
}
func NewFollowUpTypeFlagsRepo(db *gorm.DB, baseLog *logger.Logger) FollowUpTypeFlagsRepo {
	return intervention.NewFollowUpTypeFlagsRepo(db, baseLog)
}
func NewFollowUpDetailRepo(db *gorm.DB, baseLog *logger.Logger) FollowUpDetailRepo {
	return intervention.NewFollowUpDetailRepo(db, baseLog)
}
func NewCaseEventRepo(db *gorm.DB, baseLog *logger.Logger) CaseEventRepo {
	return intervention.NewCaseEventRepo(db, baseLog)
}
func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return intervention.NewCatalogRepo(db, baseLog)
}
