package intervention

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

// rowRepo carries the single-row operations every table repo shares.
// Inserts never cascade into associations; each owned row is written by
// its own repo.
type rowRepo[T any] struct {
	db  *gorm.DB
	log *logger.Logger
}

func newRowRepo[T any](db *gorm.DB, baseLog *logger.Logger, name string) rowRepo[T] {
	return rowRepo[T]{db: db, log: baseLog.With("repo", name)}
}

func (r rowRepo[T]) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r rowRepo[T]) Create(dbc dbctx.Context, row *T) error {
	if row == nil {
		return fmt.Errorf("nil row")
	}
	return r.conn(dbc).Omit(clause.Associations).Create(row).Error
}

// findOne returns nil without error when no row matches.
func (r rowRepo[T]) findOne(dbc dbctx.Context, column string, value any) (*T, error) {
	var out T
	res := r.conn(dbc).Where(column+" = ?", value).Order("id ASC").Limit(1).Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (r rowRepo[T]) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 {
		return fmt.Errorf("missing id")
	}
	if len(updates) == 0 {
		return nil
	}
	return r.conn(dbc).Model(new(T)).Where("id = ?", id).Updates(updates).Error
}
