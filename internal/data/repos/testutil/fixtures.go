package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/intervention-backend/internal/domain"
)

// Catalog ids seeded by SeedCatalogs.
const (
	ReasonSpontaneous uint = 1
	ReasonPolice      uint = 2
)

func SeedCatalogs(tb testing.TB, db *gorm.DB) {
	tb.Helper()
	upsert := db.Clauses(clause.OnConflict{DoNothing: true})
	reasons := []types.ReferralReason{
		{ID: ReasonSpontaneous, Name: "Spontaneous request"},
		{ID: ReasonPolice, Name: "Police station"},
	}
	if err := upsert.Create(&reasons).Error; err != nil {
		tb.Fatalf("seed referral reasons: %v", err)
	}
	genders := []types.Gender{{ID: 1, Name: "Female"}, {ID: 2, Name: "Male"}}
	if err := upsert.Create(&genders).Error; err != nil {
		tb.Fatalf("seed genders: %v", err)
	}
}

// SeedCase inserts a bare case row with the given code.
func SeedCase(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *types.Case {
	tb.Helper()
	c := &types.Case{
		Code:    code,
		Date:    time.Now().UTC(),
		Summary: "seed",
		Status:  types.CaseStatusActive,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		tb.Fatalf("seed case: %v", err)
	}
	return c
}

// SeedCaseCode returns a distinct code for the current year.
func SeedCaseCode(seq int) string {
	return fmt.Sprintf("%04d-%d", seq, time.Now().UTC().Year())
}
