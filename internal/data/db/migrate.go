package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/intervention-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.AllModels()...)
}

// EnsureCaseIndexes adds composite indexes AutoMigrate cannot express.
func EnsureCaseIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_intervention_case_status_date
		ON intervention_case (status, date);
	`).Error; err != nil {
		return fmt.Errorf("create idx_intervention_case_status_date: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_case_event_case_created
		ON case_event (case_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_case_event_case_created: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureCaseIndexes(s.db); err != nil {
		s.log.Error("Case index migration failed", "error", err)
		return err
	}
	return nil
}
