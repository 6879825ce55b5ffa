package db

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/benx421/retail-bank/internal/config"
)

// NewTestDB creates a DB instance for testing with a no-op logger
// This is only for use in tests where logging output is not needed
func NewTestDB(sqlDB *sql.DB) *DB {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &DB{
		DB:     sqlDB,
		logger: logger,
	}
}

// OpenTestDB connects to the database named by the environment and migrates it.
// The test is skipped when no database is reachable.
func OpenTestDB(t *testing.T) *DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close() //nolint:errcheck // test skip path
		t.Skipf("postgres not reachable: %v", err)
	}

	if err := RunMigrations(context.Background(), sqlDB); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database := NewTestDB(sqlDB)
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // test cleanup
	return database
}
