package repository

import (
	"fmt"
	"testing"

	"github.com/Whypen/Pet-Huddle-sub002/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema
// migrated. Each call gets its own database; the named shared cache keeps
// every pooled connection on the same one.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.QuotaCounter{},
		&models.ScanEntry{},
		&models.TriageCacheEntry{},
		&models.Conversation{},
		&models.Profile{},
		&models.VetUsage{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}
