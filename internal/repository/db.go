package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"matrix-planner/internal/model"
)

const defaultDSN = "matrix_planner.db"

// NewDB opens a SQLite database and runs migrations.
func NewDB(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	if log == nil {
		log = zap.NewNop()
	}

	file, err := sqliteFile(dsn)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir for %q: %w", file, err)
		}
	}

	dbLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.Entry{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if file == "" {
		file = ":memory:"
	}
	log.Info("database opened", zap.String("file", file))
	return db, nil
}

// sqliteFile resolves the absolute file behind a SQLite DSN such as
// "data/planner.db" or "file:data/planner.db?_busy_timeout=5000".
// In-memory databases resolve to "".
func sqliteFile(dsn string) (string, error) {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return "", nil
	}
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve db path %q: %w", path, err)
	}
	return abs, nil
}
