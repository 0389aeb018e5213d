package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"booklog/internal/config"
	"booklog/internal/logger"
	"booklog/internal/platform/postgres"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(2)
	}

	config.LoadEnvFiles()
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	// create only writes a file and needs no database.
	if opts.command == "create" {
		if err := goose.Create(nil, opts.dir, opts.name, "sql"); err != nil {
			log.Fatal().Err(err).Msg("create migration")
		}
		log.Info().Str("name", opts.name).Msg("migration created")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.DB.ConnString(), postgres.PoolOptions{MaxConns: 1, PingTimeout: 5 * time.Second})
	if err != nil {
		log.Fatal().Err(err).Str("db", postgres.RedactDSN(cfg.DB.ConnString())).Msg("connect to database")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrate(db, opts, log); err != nil {
		log.Fatal().Err(err).Str("command", opts.command).Msg("migration failed")
	}
}

func migrate(db *sql.DB, opts options, log zerolog.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch opts.command {
	case "up":
		if err := goose.Up(db, opts.dir); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	case "down":
		if err := goose.Down(db, opts.dir); err != nil {
			return err
		}
		log.Info().Msg("migration rolled back")
	case "status":
		return goose.Status(db, opts.dir)
	default:
		return fmt.Errorf("unknown command %q, use up, down, status or create", opts.command)
	}
	return nil
}
