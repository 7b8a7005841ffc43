package database

import (
	"fmt"

	"gorm.io/gorm"

	"contact-intake-api/internal/domain"
)

// AutoMigrate runs GORM auto-migration for all relational domain models.
// Submission records live in Redis and are not migrated here.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.ImageAsset{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
