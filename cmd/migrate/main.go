package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/joao-fontenele/commerce-api/internal/config"
	"github.com/joao-fontenele/commerce-api/migrations"
)

const usage = "usage: migrate <up|down|version|goto V|force V>"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		logger.Error(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	m, err := migrations.New(cfg.Database.MigrationsPath, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create migrate instance", "error", err)
		os.Exit(1)
	}
	defer func() { _, _ = m.Close() }()

	if err := run(m, logger, args[0], args[1:]); err != nil {
		logger.Error("migrate failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func run(m *migrate.Migrate, logger *slog.Logger, command string, args []string) error {
	switch command {
	case "up":
		return report(logger, m.Up(), "migrations applied", "no pending migrations")

	case "down":
		return report(logger, m.Steps(-1), "migration rolled back", "no migrations to roll back")

	case "goto":
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		return report(logger, m.Migrate(uint(version)), "migrated to version", "already at version")

	case "force":
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(version); err != nil {
			return err
		}
		logger.Info("version forced", "version", version)
		return nil

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied yet")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("current migration version", "version", version, "dirty", dirty)
		return nil

	default:
		return fmt.Errorf("unknown command %q; %s", command, usage)
	}
}

func report(logger *slog.Logger, err error, done, noChange string) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info(noChange)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(done)
	return nil
}

func versionArg(args []string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New("missing version argument")
	}
	v, err := strconv.Atoi(args[0])
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid version %q", args[0])
	}
	return v, nil
}
