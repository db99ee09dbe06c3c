package testutil

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/onsitehq/salespulse-backend/internal/domain"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens a fresh migrated sqlite store under the test's temp dir, so every
// test sees an empty database and teardown is automatic.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "salespulse_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&domain.Lead{}, &domain.UploadRecord{}); err != nil {
		tb.Fatalf("automigrate: %v", err)
	}
	return db
}

func SeedLead(tb testing.TB, db *gorm.DB, zohoLeadID, phone string, fields map[string]interface{}) *domain.Lead {
	tb.Helper()
	if fields == nil {
		fields = map[string]interface{}{}
	}
	l := &domain.Lead{
		ID:              uuid.New(),
		ZohoLeadID:      zohoLeadID,
		NormalizedPhone: phone,
		SourceTag:       "test",
		Fields:          fields,
		LastUpdatedAt:   time.Now().UTC(),
	}
	if err := db.Create(l).Error; err != nil {
		tb.Fatalf("seed lead: %v", err)
	}
	return l
}
