package intervention

import (
	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type AddressRepo interface {
	Create(dbc dbctx.Context, row *types.Address) error
	GetByID(dbc dbctx.Context, id uint) (*types.Address, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type addressRepo struct {
	rowRepo[types.Address]
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return &addressRepo{rowRepo: newRowRepo[types.Address](db, baseLog, "AddressRepo")}
}

func (r *addressRepo) GetByID(dbc dbctx.Context, id uint) (*types.Address, error) {
	return r.findOne(dbc, "id", id)
}

type VictimRepo interface {
	Create(dbc dbctx.Context, row *types.Victim) error
	GetByCaseID(dbc dbctx.Context, caseID uint) (*types.Victim, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type victimRepo struct {
	rowRepo[types.Victim]
}

func NewVictimRepo(db *gorm.DB, baseLog *logger.Logger) VictimRepo {
	return &victimRepo{rowRepo: newRowRepo[types.Victim](db, baseLog, "VictimRepo")}
}

func (r *victimRepo) GetByCaseID(dbc dbctx.Context, caseID uint) (*types.Victim, error) {
	return r.findOne(dbc, "case_id", caseID)
}

type InterviewedPersonRepo interface {
	Create(dbc dbctx.Context, row *types.InterviewedPerson) error
	GetByVictimID(dbc dbctx.Context, victimID uint) (*types.InterviewedPerson, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type interviewedPersonRepo struct {
	rowRepo[types.InterviewedPerson]
}

func NewInterviewedPersonRepo(db *gorm.DB, baseLog *logger.Logger) InterviewedPersonRepo {
	return &interviewedPersonRepo{rowRepo: newRowRepo[types.InterviewedPerson](db, baseLog, "InterviewedPersonRepo")}
}

func (r *interviewedPersonRepo) GetByVictimID(dbc dbctx.Context, victimID uint) (*types.InterviewedPerson, error) {
	return r.findOne(dbc, "victim_id", victimID)
}
