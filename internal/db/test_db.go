package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// Each call gets its own named database so parallel packages never share rows.
func SetupTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := conn.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}
	if err := createIndexes(conn); err != nil {
		return nil, fmt.Errorf("failed to index test database: %w", err)
	}

	return conn, nil
}

// CleanupTestDB releases the in-memory database; shared-cache memory
// databases vanish with their last connection.
func CleanupTestDB(conn *gorm.DB) {
	if err := Close(conn); err != nil {
		log.Printf("close test database: %v", err)
	}
}
