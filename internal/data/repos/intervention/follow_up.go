package intervention

import (
	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type FollowUpRepo interface {
	Create(dbc dbctx.Context, row *types.FollowUp) error
	GetByCaseID(dbc dbctx.Context, caseID uint) (*types.FollowUp, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type followUpRepo struct {
	rowRepo[types.FollowUp]
}

func NewFollowUpRepo(db *gorm.DB, baseLog *logger.Logger) FollowUpRepo {
	return &followUpRepo{rowRepo: newRowRepo[types.FollowUp](db, baseLog, "FollowUpRepo")}
}

func (r *followUpRepo) GetByCaseID(dbc dbctx.Context, caseID uint) (*types.FollowUp, error) {
	return r.findOne(dbc, "case_id", caseID)
}

type FollowUpTypeFlagsRepo interface {
	Create(dbc dbctx.Context, row *types.FollowUpTypeFlags) error
	GetByFollowUpID(dbc dbctx.Context, followUpID uint) (*types.FollowUpTypeFlags, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type followUpTypeFlagsRepo struct {
	rowRepo[types.FollowUpTypeFlags]
}

func NewFollowUpTypeFlagsRepo(db *gorm.DB, baseLog *logger.Logger) FollowUpTypeFlagsRepo {
	return &followUpTypeFlagsRepo{rowRepo: newRowRepo[types.FollowUpTypeFlags](db, baseLog, "FollowUpTypeFlagsRepo")}
}

func (r *followUpTypeFlagsRepo) GetByFollowUpID(dbc dbctx.Context, followUpID uint) (*types.FollowUpTypeFlags, error) {
	return r.findOne(dbc, "follow_up_id", followUpID)
}

type FollowUpDetailRepo interface {
	Create(dbc dbctx.Context, row *types.FollowUpDetail) error
	GetByFollowUpID(dbc dbctx.Context, followUpID uint) (*types.FollowUpDetail, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type followUpDetailRepo struct {
	rowRepo[types.FollowUpDetail]
}

func NewFollowUpDetailRepo(db *gorm.DB, baseLog *logger.Logger) FollowUpDetailRepo {
	return &followUpDetailRepo{rowRepo: newRowRepo[types.FollowUpDetail](db, baseLog, "FollowUpDetailRepo")}
}

func (r *followUpDetailRepo) GetByFollowUpID(dbc dbctx.Context, followUpID uint) (*types.FollowUpDetail, error) {
	return r.findOne(dbc, "follow_up_id", followUpID)
}
