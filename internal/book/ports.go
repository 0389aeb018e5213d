package book

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

import (
	"context"

	"booklog/internal/auth"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, sort Sort) ([]Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	// Delete returns the number of rows removed; zero means no match.
	Delete(ctx context.Context, isbn string) (int64, error)
	// WithTx runs fn inside one transaction. The transaction commits only
	// when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of statements available inside a transaction. Credential
// lookups share it so a check and the write guarded by it are atomic.
type Tx interface {
	auth.CredentialStore
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	Insert(ctx context.Context, b Book) error
	// Update replaces the book stored under isbn and returns rows affected.
	Update(ctx context.Context, isbn string, b Book) (int64, error)
	Delete(ctx context.Context, isbn string) (int64, error)
}
