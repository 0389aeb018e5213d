package main

import (
	"context"
	"net/http"
	"time"

	"booklog/internal/book"
	"booklog/internal/httpx"
	"booklog/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const maxFormBytes = 64 << 10

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	log        zerolog.Logger
	books      *book.HTTPHandler
	db         Pinger
	rateLimit  *httpx.RateLimitMiddleware
	enableHSTS bool
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware(d.log))
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware(d.enableHSTS))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.db.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("readiness: db ping failed")
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Handle(view.StylesPath+"*", view.Styles())

	r.Group(func(r chi.Router) {
		r.Use(httpx.RequestSizeLimitMiddleware(maxFormBytes))
		if d.rateLimit != nil {
			r.Use(d.rateLimit.Middleware)
		}
		d.books.Routes(r)
	})

	return r
}
