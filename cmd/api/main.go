package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booklog/internal/auth"
	"booklog/internal/book"
	"booklog/internal/config"
	"booklog/internal/httpx"
	"booklog/internal/logger"
	"booklog/internal/platform/postgres"
	"booklog/internal/platform/quotes"
	"booklog/internal/view"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const userAgent = "booklog/1.0"

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	dsn := cfg.DB.ConnString()
	pool, err := postgres.Open(ctx, dsn, postgres.PoolOptions{
		MaxConns:    cfg.DB.MaxConns,
		PingTimeout: 2 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("open database %s: %w", postgres.RedactDSN(dsn), err)
	}
	defer pool.Close()
	log.Info().Str("db", postgres.RedactDSN(dsn)).Msg("database connection OK")

	authn, err := auth.New(cfg.AuthMode)
	if err != nil {
		return err
	}
	views, err := view.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	repo := book.NewPostgresRepo(pool, cfg.DB.QueryTimeout)
	service := book.NewService(repo, authn, book.Options{DeleteRequiresAuth: cfg.DeleteRequiresAuth})
	quoteClient := quotes.NewClient(cfg.QuoteURL, userAgent, cfg.QuoteTimeout, log)
	rateLimit := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: newRouter(routerDeps{
			log:        log,
			books:      book.NewHTTPHandler(service, quoteClient, views),
			db:         pool,
			rateLimit:  rateLimit,
			enableHSTS: cfg.EnableHSTS,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      40 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("auth_mode", cfg.AuthMode).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		rateLimit.Run(gCtx)
		return nil
	})
	group.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
