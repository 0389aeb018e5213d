package user

import (
	"context"
	"errors"
	"time"

	"booklog/internal/auth"
	"booklog/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
)

// PostgresRepo implements auth.CredentialStore over a pool or a transaction.
type PostgresRepo struct {
	db      postgres.DBTX
	timeout time.Duration
}

func NewPostgresRepo(db postgres.DBTX, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) MatchPlain(ctx context.Context, username, password string) (bool, error) {
	const query = `SELECT 1 FROM users WHERE username = $1 AND password = $2 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var one int
	err := r.db.QueryRow(timeoutCtx, query, username, password).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PostgresRepo) StoredPassword(ctx context.Context, username string) (string, error) {
	const query = `SELECT password FROM users WHERE username = $1 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var password string
	err := r.db.QueryRow(timeoutCtx, query, username).Scan(&password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", auth.ErrUnknownUser
		}
		return "", err
	}
	return password, nil
}

// Upsert stores u, replacing the password of an existing user. Used by the
// seed tool; the web app never writes users.
func (r *PostgresRepo) Upsert(ctx context.Context, u User) error {
	const query = `
		INSERT INTO users (username, password) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password = EXCLUDED.password`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, u.Username, u.Password)
	return err
}
