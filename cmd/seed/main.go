package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"booklog/internal/auth"
	"booklog/internal/book"
	"booklog/internal/config"
	"booklog/internal/logger"
	"booklog/internal/platform/postgres"
	"booklog/internal/user"

	"github.com/rs/zerolog"
)

func main() {
	var (
		username = flag.String("username", "admin", "user allowed to edit the library")
		password = flag.String("password", "", "password for -username (required)")
		noBooks  = flag.Bool("no-books", false, "only create the user")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if *password == "" {
		log.Fatal().Msg("-password is required")
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.DB.ConnString(), postgres.PoolOptions{MaxConns: 2, PingTimeout: 5 * time.Second})
	if err != nil {
		log.Fatal().Err(err).Str("db", postgres.RedactDSN(cfg.DB.ConnString())).Msg("connect to database")
	}
	defer pool.Close()

	stored, err := storedPassword(cfg.AuthMode, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}
	users := user.NewPostgresRepo(pool, cfg.DB.QueryTimeout)
	if err := users.Upsert(ctx, user.User{Username: *username, Password: stored}); err != nil {
		log.Fatal().Err(err).Msg("seed user")
	}
	log.Info().Str("username", *username).Str("auth_mode", cfg.AuthMode).Msg("user ready")

	if *noBooks {
		return
	}
	repo := book.NewPostgresRepo(pool, cfg.DB.QueryTimeout)
	added, err := seedBooks(ctx, repo, sampleBooks(*username), log)
	if err != nil {
		log.Fatal().Err(err).Msg("seed books")
	}
	log.Info().Int("added", added).Msg("seed complete")
}

// storedPassword returns what the users table must hold for mode.
func storedPassword(mode, password string) (string, error) {
	if mode == config.AuthModeBcrypt {
		return auth.HashPassword(password)
	}
	return password, nil
}

// seedBooks inserts books in one transaction, skipping ISBNs already present.
func seedBooks(ctx context.Context, repo book.Repository, books []book.Book, log zerolog.Logger) (int, error) {
	added := 0
	err := repo.WithTx(ctx, func(tx book.Tx) error {
		for _, b := range books {
			if _, err := tx.GetByISBN(ctx, b.ISBN); err == nil {
				log.Debug().Str("isbn", b.ISBN).Msg("already present")
				continue
			} else if !errors.Is(err, book.ErrNotFound) {
				return err
			}
			if err := tx.Insert(ctx, b); err != nil {
				return fmt.Errorf("insert %s: %w", b.ISBN, err)
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func sampleBooks(username string) []book.Book {
	day := func(s string) *time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return &t
	}
	rating := func(v float64) *float64 { return &v }
	return []book.Book{
		{ISBN: "9780553103540", Title: "A Game of Thrones", Author: "George R.R. Martin", Rating: rating(9), DateRead: day("2024-02-11"), Notes: "The one that started it all.", Username: username},
		{ISBN: "9780441172719", Title: "Dune", Author: "Frank Herbert", Rating: rating(9.5), DateRead: day("2023-08-03"), Username: username},
		{ISBN: "9780140449136", Title: "The Odyssey", Author: "Homer", Rating: rating(8), DateRead: day("2022-12-20"), Username: username},
		{ISBN: "9780316769488", Title: "The Catcher in the Rye", Author: "J.D. Salinger", Rating: rating(6.5), Username: username},
	}
}
