package db

import (
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&model.Identity{},
		&model.Profile{},
		&model.Address{},
		&model.CartLine{},
		&model.Store{},
		&model.Product{},
		&model.Order{},
	}
}

// Migrate runs database migrations
func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}
	if err := createIndexes(conn); err != nil {
		logger.Error("Failed to create indexes", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// indexes are the ones gorm tags cannot express.
var indexes = []string{
	// at most one live default address per identity
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_one_default ON addresses (user_id) WHERE is_default AND deleted_at IS NULL`,
}

func createIndexes(conn *gorm.DB) error {
	for _, stmt := range indexes {
		if err := conn.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
