// Package database opens the banner store: a local SQLite file or a hosted Turso
// (libSQL) database, chosen by configuration.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite3"
	DriverLibSQL = "libsql"
)

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	Driver string
}

// Settings selects and tunes a connection.
type Settings struct {
	Driver          string
	SQLitePath      string
	TursoURL        string
	TursoAuthToken  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SettingsFromConfig reads connection settings from pkg/config.
func SettingsFromConfig() Settings {
	return Settings{
		Driver:          config.DBDriver,
		SQLitePath:      config.SQLitePath,
		TursoURL:        config.TursoDatabaseURL,
		TursoAuthToken:  config.TursoAuthToken,
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute,
	}
}

// DataSourceName builds the driver-specific DSN.
func (s Settings) DataSourceName() (string, error) {
	switch s.Driver {
	case DriverSQLite, "":
		return SQLiteDSN(s.SQLitePath), nil
	case DriverLibSQL:
		if s.TursoURL == "" {
			return "", fmt.Errorf("TURSO_DATABASE_URL is required for the libsql driver")
		}
		if s.TursoAuthToken == "" {
			return s.TursoURL, nil
		}
		return fmt.Sprintf("%s?authToken=%s", s.TursoURL, s.TursoAuthToken), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s.Driver)
	}
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, Driver: driverName}, nil
}

// Open connects with the given settings, applies pool limits and logs the outcome.
func Open(settings Settings, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	driver := settings.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	logger.Database().Debug("Creating new database connection", "driverName", driver)

	dsn, err := settings.DataSourceName()
	if err != nil {
		logger.Database().Error("Invalid database settings", "error", err.Error(), "driverName", driver)
		return nil, err
	}

	db, err := NewConnection(driver, dsn)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driver)
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY on concurrent saves
		db.SetMaxOpenConns(1)
	} else if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
		db.SetMaxIdleConns(settings.MaxIdleConns)
	}
	if settings.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(settings.ConnMaxLifetime)
	}

	duration := time.Since(start)
	logger.Database().Info("Database connection established", "driverName", driver, "duration", duration)
	CheckAndLogSlowQuery(logger, "DATABASE_CONNECTION", duration)

	return db, nil
}
