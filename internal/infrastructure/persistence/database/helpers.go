package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
)

// SQLiteDSN builds a go-sqlite3 DSN with foreign keys on and a busy timeout. An in-memory
// database lives only as long as its single connection.
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// TestConnectionWithLogger runs a trivial query to prove the connection works.
func TestConnectionWithLogger(ctx context.Context, db *sql.DB, logger *logging.ChanneledLogger) error {
	start := time.Now()

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		logger.Database().Error("Connection test query failed", "error", err.Error())
		return fmt.Errorf("connection test query failed: %w", err)
	}
	if result != 1 {
		logger.Database().Error("Unexpected connection test result", "result", result, "expected", 1)
		return fmt.Errorf("unexpected query result: %d", result)
	}

	logger.Database().Info("Connection test successful", "duration", time.Since(start))
	return nil
}

// GetSlowQueryThreshold returns the configured slow query threshold
func GetSlowQueryThreshold() time.Duration {
	return config.SlowQueryThreshold
}

// CheckAndLogSlowQuery logs a query on the slow-query channel when it exceeds the
// threshold. Batch operations get three times the budget.
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	threshold := GetSlowQueryThreshold()
	if strings.HasPrefix(query, "BATCH_") {
		threshold *= 3
	}
	if duration > threshold {
		logger.LogSlowQuery(query, duration)
	}
}

// WithTx runs fn inside a transaction, committing on success and rolling back on error.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
