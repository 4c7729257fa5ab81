package db

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/intervention-backend/internal/data/repos"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
)

//go:embed catalogs.yaml
var defaultCatalogs []byte

// LoadCatalog reads the catalog from path, or the embedded default when
// path is empty.
func LoadCatalog(path string) (repos.Catalog, error) {
	raw := defaultCatalogs
	if p := strings.TrimSpace(path); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return repos.Catalog{}, fmt.Errorf("read catalog %s: %w", p, err)
		}
		raw = b
	}
	var c repos.Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return repos.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	return c, nil
}

// SeedCatalogs upserts every reference catalog in one transaction.
func SeedCatalogs(ctx context.Context, db *gorm.DB, log *logger.Logger, path string) error {
	c, err := LoadCatalog(path)
	if err != nil {
		return err
	}
	repo := repos.NewCatalogRepo(db, log)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.Upsert(dbctx.Context{Ctx: ctx, Tx: tx}, c)
	})
}
