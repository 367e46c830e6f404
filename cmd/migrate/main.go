package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"payment-webhook/config"
	"payment-webhook/migrations"
	"payment-webhook/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open embedded migrations")
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("db", cfg.Database.DBName).
		Msg("Connecting to database")

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.Database.MigrateURL())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise migrations")
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Error().AnErr("source", sourceErr).AnErr("db", dbErr).Msg("Failed to close migration resources")
		}
	}()

	switch flag.Arg(0) {
	case "up":
		err := m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Msg("No change: database is up to date")
		case err != nil:
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		default:
			log.Info().Msg("Migrations applied")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back last migration")
		}
		log.Info().Msg("Last migration rolled back")

	case "goto":
		if flag.NArg() < 2 {
			log.Fatal().Msg("goto needs a version number")
		}
		version, err := strconv.ParseUint(flag.Arg(1), 10, 64)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid version number")
		}
		err = m.Migrate(uint(version))
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Uint64("version", version).Msg("No change: database already at version")
		case err != nil:
			log.Fatal().Err(err).Uint64("version", version).Msg("Failed to migrate")
		default:
			log.Info().Uint64("version", version).Msg("Migrated")
		}

	case "status":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			log.Info().Msg("No migrations applied yet")
		case err != nil:
			log.Fatal().Err(err).Msg("Failed to read migration version")
		default:
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current migration version")
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [-config path] <command>")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - show the current migration version")
}
