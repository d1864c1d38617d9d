package db

import (
	"fmt"

	types "github.com/yungbote/contactbook-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Address{},
		&types.Phone{},
	)
}

// EnsureContactIndexes adds Postgres-only indexes that AutoMigrate cannot express.
func EnsureContactIndexes(db *gorm.DB) error {
	// Listing addresses is always owner-scoped and ordered by creation.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_address_owner_created
		ON address (owner_id, created_at, id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_address_owner_created: %w", err)
	}
	// One seq per address keeps summary order deterministic.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_phone_address_seq_unique
		ON phone (address_id, seq);
	`).Error; err != nil {
		return fmt.Errorf("create idx_phone_address_seq_unique: %w", err)
	}
	return nil
}
