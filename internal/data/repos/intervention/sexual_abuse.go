package intervention

import (
	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type SexualAbuseRepo interface {
	Create(dbc dbctx.Context, row *types.SexualAbuse) error
	GetByCaseID(dbc dbctx.Context, caseID uint) (*types.SexualAbuse, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type sexualAbuseRepo struct {
	rowRepo[types.SexualAbuse]
}

func NewSexualAbuseRepo(db *gorm.DB, baseLog *logger.Logger) SexualAbuseRepo {
	return &sexualAbuseRepo{rowRepo: newRowRepo[types.SexualAbuse](db, baseLog, "SexualAbuseRepo")}
}

func (r *sexualAbuseRepo) GetByCaseID(dbc dbctx.Context, caseID uint) (*types.SexualAbuse, error) {
	return r.findOne(dbc, "case_id", caseID)
}

type SexualAbuseDetailRepo interface {
	Create(dbc dbctx.Context, row *types.SexualAbuseDetail) error
	GetBySexualAbuseID(dbc dbctx.Context, abuseID uint) (*types.SexualAbuseDetail, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type sexualAbuseDetailRepo struct {
	rowRepo[types.SexualAbuseDetail]
}

func NewSexualAbuseDetailRepo(db *gorm.DB, baseLog *logger.Logger) SexualAbuseDetailRepo {
	return &sexualAbuseDetailRepo{rowRepo: newRowRepo[types.SexualAbuseDetail](db, baseLog, "SexualAbuseDetailRepo")}
}

func (r *sexualAbuseDetailRepo) GetBySexualAbuseID(dbc dbctx.Context, abuseID uint) (*types.SexualAbuseDetail, error) {
	return r.findOne(dbc, "sexual_abuse_id", abuseID)
}
