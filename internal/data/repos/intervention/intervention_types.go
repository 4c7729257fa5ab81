package intervention

import (
	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type InterventionTypeFlagsRepo interface {
	Create(dbc dbctx.Context, row *types.InterventionTypeFlags) error
	GetByCaseID(dbc dbctx.Context, caseID uint) (*types.InterventionTypeFlags, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type interventionTypeFlagsRepo struct {
	rowRepo[types.InterventionTypeFlags]
}

func NewInterventionTypeFlagsRepo(db *gorm.DB, baseLog *logger.Logger) InterventionTypeFlagsRepo {
	return &interventionTypeFlagsRepo{rowRepo: newRowRepo[types.InterventionTypeFlags](db, baseLog, "InterventionTypeFlagsRepo")}
}

func (r *interventionTypeFlagsRepo) GetByCaseID(dbc dbctx.Context, caseID uint) (*types.InterventionTypeFlags, error) {
	return r.findOne(dbc, "case_id", caseID)
}
