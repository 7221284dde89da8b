package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// database driver
	_ "github.com/golang-migrate/migrate/v4/source/file"     // file:// source driver

	"github.com/claimlens/claimlens/internal/config"
)

// migrateURL rewrites the pool DSN onto golang-migrate's pgx5 scheme.
func migrateURL(cfg config.DatabaseConfig) string {
	return strings.Replace(DSN(cfg), "postgres://", "pgx5://", 1)
}

// RunMigrations applies all pending migrations at startup.  Nothing pending
// is not an error.
func RunMigrations(cfg config.DatabaseConfig) error {
	path := cfg.MigrationPath
	if !strings.HasPrefix(path, "file://") {
		path = "file://" + path
	}
	m, err := migrate.New(path, migrateURL(cfg))
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: up: %w", err)
	}
	return nil
}

// RollbackMigrations steps the schema back, for development use.
func RollbackMigrations(cfg config.DatabaseConfig, steps int) error {
	path := cfg.MigrationPath
	if !strings.HasPrefix(path, "file://") {
		path = "file://" + path
	}
	m, err := migrate.New(path, migrateURL(cfg))
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: rollback: %w", err)
	}
	return nil
}
