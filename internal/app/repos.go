package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/intervention-backend/internal/data/aggregates"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

func wireRepos(db *gorm.DB, log *logger.Logger) aggregates.CaseRepos {
	log.Info("Wiring repos...")
	return aggregates.NewCaseRepos(db, log)
}
