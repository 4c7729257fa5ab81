package intervention

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/intervention-backend/internal/domain"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

// Catalog bundles the reference tables a case points into.
type Catalog struct {
	ReferralReasons []types.ReferralReason `yaml:"referral_reasons"`
	Genders         []types.Gender         `yaml:"genders"`
	Districts       []types.District       `yaml:"districts"`
	Localities      []types.Locality       `yaml:"localities"`
}

type CatalogRepo interface {
	// Upsert writes every catalog row, replacing names of existing ids.
	Upsert(dbc dbctx.Context, c Catalog) error
	ReferralReasonExists(dbc dbctx.Context, id uint) (bool, error)
	ListReferralReasons(dbc dbctx.Context) ([]types.ReferralReason, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *catalogRepo) Upsert(dbc dbctx.Context, c Catalog) error {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}
	db := r.conn(dbc)
	if len(c.ReferralReasons) > 0 {
		if err := db.Clauses(onConflict).Create(&c.ReferralReasons).Error; err != nil {
			return err
		}
	}
	if len(c.Genders) > 0 {
		if err := db.Clauses(onConflict).Create(&c.Genders).Error; err != nil {
			return err
		}
	}
	if len(c.Districts) > 0 {
		if err := db.Clauses(onConflict).Create(&c.Districts).Error; err != nil {
			return err
		}
	}
	if len(c.Localities) > 0 {
		if err := db.Clauses(onConflict).Create(&c.Localities).Error; err != nil {
			return err
		}
	}
	r.log.Debug("catalog upserted",
		"referral_reasons", len(c.ReferralReasons),
		"genders", len(c.Genders),
		"districts", len(c.Districts),
		"localities", len(c.Localities),
	)
	return nil
}

func (r *catalogRepo) ReferralReasonExists(dbc dbctx.Context, id uint) (bool, error) {
	var count int64
	if err := r.conn(dbc).
		Model(&types.ReferralReason{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *catalogRepo) ListReferralReasons(dbc dbctx.Context) ([]types.ReferralReason, error) {
	var out []types.ReferralReason
	if err := r.conn(dbc).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
