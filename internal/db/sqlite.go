package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/onsitehq/salespulse-backend/internal/domain"
	"github.com/onsitehq/salespulse-backend/internal/pkg/envutil"
	"github.com/onsitehq/salespulse-backend/internal/pkg/logger"
)

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSQLiteService opens (or creates) the embedded dashboard store. The store
// is initialized once at startup and owns all persisted reconciliation state.
func NewSQLiteService(log *logger.Logger) (*SQLiteService, error) {
	serviceLog := log.With("service", "SQLiteService")

	path := envutil.GetEnv("SQLITE_PATH", "salespulse.db", log)

	log.Info("Opening SQLite store...", "path", path)
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to open SQLite store", "error", err, "path", path)
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	// WAL keeps reads cheap while an upload is being merged; the busy timeout
	// covers the brief writer contention that still remains.
	if envutil.GetEnvAsBool("SQLITE_WAL", true, log) {
		if err := gdb.Exec(`PRAGMA journal_mode = WAL;`).Error; err != nil {
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	busyTimeoutMs := envutil.GetEnvAsInt("SQLITE_BUSY_TIMEOUT_MS", 5000, log)
	if err := gdb.Exec(fmt.Sprintf(`PRAGMA busy_timeout = %d;`, busyTimeoutMs)).Error; err != nil {
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}

	return &SQLiteService{db: gdb, log: serviceLog}, nil
}

func (s *SQLiteService) AutoMigrateAll() error {
	s.log.Info("Auto migrating sqlite tables...")
	err := s.db.AutoMigrate(
		&domain.Lead{},
		&domain.UploadRecord{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for sqlite tables", "error", err)
		return err
	}
	return nil
}

func (s *SQLiteService) DB() *gorm.DB {
	return s.db
}
