package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booklog/internal/platform/postgres"
	"booklog/internal/user"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectBooks = `
	SELECT isbn, title, COALESCE(author, ''), rating::float8,
	       date_read, COALESCE(notes, ''), COALESCE(username, '')
	FROM books`

// queries holds the statements shared by the pool and a transaction.
type queries struct {
	db      postgres.DBTX
	timeout time.Duration
}

func (q queries) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, q.timeout)
}

type PostgresRepo struct {
	queries
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{
		queries: queries{db: pool, timeout: timeout},
		pool:    pool,
	}
}

func (r *PostgresRepo) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newPGTx(tx, r.timeout)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pgTx struct {
	queries
	users *user.PostgresRepo
}

func newPGTx(tx pgx.Tx, timeout time.Duration) *pgTx {
	return &pgTx{
		queries: queries{db: tx, timeout: timeout},
		users:   user.NewPostgresRepo(tx, timeout),
	}
}

func (t *pgTx) MatchPlain(ctx context.Context, username, password string) (bool, error) {
	return t.users.MatchPlain(ctx, username, password)
}

func (t *pgTx) StoredPassword(ctx context.Context, username string) (string, error) {
	return t.users.StoredPassword(ctx, username)
}

func (q queries) List(ctx context.Context, sort Sort) ([]Book, error) {
	query := selectBooks
	switch sort {
	case SortByDate:
		query += ` ORDER BY date_read DESC NULLS LAST`
	case SortByRating:
		query += ` ORDER BY rating DESC NULLS LAST`
	case SortNone:
	default:
		return nil, ErrInvalidSort
	}

	timeoutCtx, cancel := q.withTimeout(ctx)
	defer cancel()
	rows, err := q.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Rating, &b.DateRead, &b.Notes, &b.Username); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (q queries) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := q.withTimeout(ctx)
	defer cancel()

	var b Book
	err := q.db.QueryRow(timeoutCtx, selectBooks+` WHERE isbn = $1 LIMIT 1`, isbn).Scan(
		&b.ISBN, &b.Title, &b.Author, &b.Rating, &b.DateRead, &b.Notes, &b.Username,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (q queries) Insert(ctx context.Context, b Book) error {
	const sql = `
		INSERT INTO books (isbn, title, author, rating, date_read, notes, username)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	timeoutCtx, cancel := q.withTimeout(ctx)
	defer cancel()
	_, err := q.db.Exec(timeoutCtx, sql, b.ISBN, b.Title, b.Author, b.Rating, b.DateRead, b.Notes, b.Username)
	return mapWriteError(err)
}

func (q queries) Update(ctx context.Context, isbn string, b Book) (int64, error) {
	const sql = `
		UPDATE books
		SET isbn = $1, title = $2, author = $3, rating = $4, date_read = $5, notes = $6
		WHERE isbn = $7`

	timeoutCtx, cancel := q.withTimeout(ctx)
	defer cancel()
	tag, err := q.db.Exec(timeoutCtx, sql, b.ISBN, b.Title, b.Author, b.Rating, b.DateRead, b.Notes, isbn)
	if err != nil {
		return 0, mapWriteError(err)
	}
	return tag.RowsAffected(), nil
}

func (q queries) Delete(ctx context.Context, isbn string) (int64, error) {
	timeoutCtx, cancel := q.withTimeout(ctx)
	defer cancel()
	tag, err := q.db.Exec(timeoutCtx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDuplicateISBN
	}
	return err
}
