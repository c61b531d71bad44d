package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/employee-records-api/internal/platform/config"
	sqlitedb "github.com/ogurasousui/employee-records-api/internal/platform/db/sqlite"
	"github.com/ogurasousui/employee-records-api/internal/platform/logger"
	"github.com/rs/zerolog"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, closer, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer closer.Close()

	if cfg.Database.Driver == config.DriverSQLite {
		err = migrateSQLite(action, cfg.Database.Path)
	} else {
		err = runMigration(log, action, *migrationsDir, cfg.Database.DSN())
	}
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("migration failed")
		closer.Close()
		os.Exit(1)
	}

	log.Info().Str("action", action).Msg("migration completed")
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

// migrateSQLite は組み込みスキーマを適用します。sqlite では up のみ対応します。
func migrateSQLite(action, path string) error {
	if action != "up" {
		return fmt.Errorf("action %q is not supported for sqlite", action)
	}
	db, err := sqlitedb.Open(context.Background(), path)
	if err != nil {
		return err
	}
	return db.Close()
}

func runMigration(log zerolog.Logger, action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Info().Msg("no migration applied")
				return nil
			}
			return err
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current version")
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
