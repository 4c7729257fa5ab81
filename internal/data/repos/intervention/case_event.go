package intervention

import (
	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type CaseEventRepo interface {
	Create(dbc dbctx.Context, row *types.CaseEvent) error
	ListByCaseID(dbc dbctx.Context, caseID uint) ([]*types.CaseEvent, error)
}

type caseEventRepo struct {
	rowRepo[types.CaseEvent]
}

func NewCaseEventRepo(db *gorm.DB, baseLog *logger.Logger) CaseEventRepo {
	return &caseEventRepo{rowRepo: newRowRepo[types.CaseEvent](db, baseLog, "CaseEventRepo")}
}

func (r *caseEventRepo) ListByCaseID(dbc dbctx.Context, caseID uint) ([]*types.CaseEvent, error) {
	var out []*types.CaseEvent
	if err := r.conn(dbc).
		Where("case_id = ?", caseID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
