package main

// Run database migrations:
//   go run ./cmd/migrate [up|status|down]

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/storage/db"
	"resume-parser/internal/shared/telemetry"
)

func main() {
	databaseURL := flag.String("database-url", "", "Postgres connection string (defaults to DATABASE_URL)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [--database-url url] [up|status|down]")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Load()
	telemetry.Setup(cfg.LogLevel, cfg.LogFormat)
	if *databaseURL != "" {
		cfg.DatabaseURL = *databaseURL
	}

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	if err := run(context.Background(), cfg.DatabaseURL, command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"command": command})
}

func run(ctx context.Context, databaseURL, command string) error {
	switch command {
	case "up", "status", "down":
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	sqlDB, err := db.Open(ctx, databaseURL, db.RuntimeMigrate)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	switch command {
	case "status":
		return db.MigrationStatus(ctx, sqlDB)
	case "down":
		return db.RollbackOne(ctx, sqlDB)
	default:
		return db.RunMigrations(ctx, sqlDB)
	}
}
