package intervention

import (
	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type CriminalEventRepo interface {
	Create(dbc dbctx.Context, row *types.CriminalEvent) error
	GetByCaseID(dbc dbctx.Context, caseID uint) (*types.CriminalEvent, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type criminalEventRepo struct {
	rowRepo[types.CriminalEvent]
}

func NewCriminalEventRepo(db *gorm.DB, baseLog *logger.Logger) CriminalEventRepo {
	return &criminalEventRepo{rowRepo: newRowRepo[types.CriminalEvent](db, baseLog, "CriminalEventRepo")}
}

func (r *criminalEventRepo) GetByCaseID(dbc dbctx.Context, caseID uint) (*types.CriminalEvent, error) {
	return r.findOne(dbc, "case_id", caseID)
}

type CrimeTypeFlagsRepo interface {
	Create(dbc dbctx.Context, row *types.CrimeTypeFlags) error
	GetByCriminalEventID(dbc dbctx.Context, eventID uint) (*types.CrimeTypeFlags, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type crimeTypeFlagsRepo struct {
	rowRepo[types.CrimeTypeFlags]
}

func NewCrimeTypeFlagsRepo(db *gorm.DB, baseLog *logger.Logger) CrimeTypeFlagsRepo {
	return &crimeTypeFlagsRepo{rowRepo: newRowRepo[types.CrimeTypeFlags](db, baseLog, "CrimeTypeFlagsRepo")}
}

func (r *crimeTypeFlagsRepo) GetByCriminalEventID(dbc dbctx.Context, eventID uint) (*types.CrimeTypeFlags, error) {
	return r.findOne(dbc, "criminal_event_id", eventID)
}

type EventLocationRepo interface {
	Create(dbc dbctx.Context, row *types.EventLocation) error
	GetByCriminalEventID(dbc dbctx.Context, eventID uint) (*types.EventLocation, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type eventLocationRepo struct {
	rowRepo[types.EventLocation]
}

func NewEventLocationRepo(db *gorm.DB, baseLog *logger.Logger) EventLocationRepo {
	return &eventLocationRepo{rowRepo: newRowRepo[types.EventLocation](db, baseLog, "EventLocationRepo")}
}

func (r *eventLocationRepo) GetByCriminalEventID(dbc dbctx.Context, eventID uint) (*types.EventLocation, error) {
	return r.findOne(dbc, "criminal_event_id", eventID)
}
