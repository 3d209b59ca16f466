package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veenapanicker/nexus/internal/models"
)

// Open connects to sqlite at the given DSN and migrates the schema. The
// default DSN is in-memory, so a fresh process always starts empty.
func Open(dsn string) (*gorm.DB, error) {
	if !strings.HasPrefix(dsn, "file::memory:") {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Report{},
		&models.GeneratedReport{},
		&models.ScheduledReport{},
		&models.AdminUser{},
		&models.License{},
		&models.StudentLicense{},
		&models.Course{},
		&models.StudentEnrollment{},
		&models.SyncRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}
