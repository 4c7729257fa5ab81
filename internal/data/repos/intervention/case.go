package intervention

import (
	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

type CaseRepo interface {
	Create(dbc dbctx.Context, row *types.Case) error
	GetByID(dbc dbctx.Context, id uint) (*types.Case, error)
	GetByCode(dbc dbctx.Context, code string) (*types.Case, error)
	// LatestByCodeSuffix returns the case with the highest id whose code ends
	// with suffix, deleted cases included.
	LatestByCodeSuffix(dbc dbctx.Context, suffix string) (*types.Case, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	// GetAggregate loads the case with every owned sub-entity joined.
	GetAggregate(dbc dbctx.Context, id uint) (*types.Case, error)
	Count(dbc dbctx.Context) (int64, error)
}

var aggregatePreloads = []string{
	"Referral.Reason",
	"CriminalEvent.CrimeTypes",
	"CriminalEvent.Location",
	"PrimaryResponseAction",
	"SexualAbuse.Detail",
	"Victim.Address",
	"Victim.InterviewedPerson.Address",
	"InterventionTypes",
	"FollowUp.Types",
	"FollowUp.Detail",
}

type caseRepo struct {
	rowRepo[types.Case]
}

func NewCaseRepo(db *gorm.DB, baseLog *logger.Logger) CaseRepo {
	return &caseRepo{rowRepo: newRowRepo[types.Case](db, baseLog, "CaseRepo")}
}

func (r *caseRepo) GetByID(dbc dbctx.Context, id uint) (*types.Case, error) {
	return r.findOne(dbc, "id", id)
}

func (r *caseRepo) GetByCode(dbc dbctx.Context, code string) (*types.Case, error) {
	return r.findOne(dbc, "code", code)
}

func (r *caseRepo) LatestByCodeSuffix(dbc dbctx.Context, suffix string) (*types.Case, error) {
	var out types.Case
	res := r.conn(dbc).
		Where("code LIKE ?", "%"+suffix).
		Order("id DESC").
		Limit(1).
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (r *caseRepo) GetAggregate(dbc dbctx.Context, id uint) (*types.Case, error) {
	q := r.conn(dbc)
	for _, p := range aggregatePreloads {
		q = q.Preload(p)
	}
	var out types.Case
	res := q.Where("id = ?", id).Limit(1).Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (r *caseRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.conn(dbc).Model(&types.Case{}).Count(&n).Error
	return n, err
}
