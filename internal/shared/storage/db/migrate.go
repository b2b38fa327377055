package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies embedded SQL migrations via goose. If database is nil, it's a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := configureGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of each embedded migration.
func MigrationStatus(ctx context.Context, database *sql.DB) error {
	if err := configureGoose(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, database, "migrations")
}

// RollbackOne reverts the most recent migration.
func RollbackOne(ctx context.Context, database *sql.DB) error {
	if err := configureGoose(); err != nil {
		return err
	}
	return goose.DownContext(ctx, database, "migrations")
}

func configureGoose() error {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return nil
}
