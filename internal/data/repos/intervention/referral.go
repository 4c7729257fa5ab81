package intervention

import (
	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type ReferralRepo interface {
	Create(dbc dbctx.Context, row *types.Referral) error
	GetByCaseID(dbc dbctx.Context, caseID uint) (*types.Referral, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type referralRepo struct {
	rowRepo[types.Referral]
}

func NewReferralRepo(db *gorm.DB, baseLog *logger.Logger) ReferralRepo {
	return &referralRepo{rowRepo: newRowRepo[types.Referral](db, baseLog, "ReferralRepo")}
}

func (r *referralRepo) GetByCaseID(dbc dbctx.Context, caseID uint) (*types.Referral, error) {
	return r.findOne(dbc, "case_id", caseID)
}

type PrimaryResponseActionRepo interface {
	Create(dbc dbctx.Context, row *types.PrimaryResponseAction) error
	GetByCaseID(dbc dbctx.Context, caseID uint) (*types.PrimaryResponseAction, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type primaryResponseActionRepo struct {
	rowRepo[types.PrimaryResponseAction]
}

func NewPrimaryResponseActionRepo(db *gorm.DB, baseLog *logger.Logger) PrimaryResponseActionRepo {
	return &primaryResponseActionRepo{rowRepo: newRowRepo[types.PrimaryResponseAction](db, baseLog, "PrimaryResponseActionRepo")}
}

func (r *primaryResponseActionRepo) GetByCaseID(dbc dbctx.Context, caseID uint) (*types.PrimaryResponseAction, error) {
	return r.findOne(dbc, "case_id", caseID)
}
