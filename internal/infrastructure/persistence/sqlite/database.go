// Package sqlite provides SQLite database setup for development and tests
package sqlite

import (
	"fmt"

	gormmodels "github.com/snacktrack/v2/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and migrates a SQLite database. An empty path
// yields an in-memory database.
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := gormmodels.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
