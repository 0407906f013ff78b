package db

import (
	"fmt"

	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/pkg/logging"
)

// Migrate runs the idempotent schema migration. It is invoked explicitly
// once at process startup, never as an import-time side effect.
func (d *DB) Migrate() error {
	err := d.DB.AutoMigrate(
		&models.Account{},
		&models.Category{},
		&models.Procedure{},
		&models.Post{},
		&models.Reply{},
		&models.Vote{},
		&models.ModerationAction{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	logging.GetLogger().Info("Schema migration complete")
	return nil
}
