package book

import (
	"context"
	"fmt"

	"booklog/internal/auth"
)

type Options struct {
	// DeleteRequiresAuth makes Delete authenticate like Create and Update.
	DeleteRequiresAuth bool
}

// Service provides book-related business logic.
type Service struct {
	repo  Repository
	authn auth.Authenticator
	opts  Options
}

// NewService creates a new book service.
func NewService(repo Repository, authn auth.Authenticator, opts Options) *Service {
	return &Service{repo: repo, authn: authn, opts: opts}
}

// DeleteRequiresAuth reports whether Delete checks credentials.
func (s *Service) DeleteRequiresAuth() bool {
	return s.opts.DeleteRequiresAuth
}

// List returns every book in storage order.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx, SortNone)
}

// Sorted returns every book ordered descending by the named criterion.
func (s *Service) Sorted(ctx context.Context, criterion string) ([]Book, error) {
	sort, err := ParseSort(criterion)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, sort)
}

// Get returns the book stored under isbn or ErrNotFound.
func (s *Service) Get(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Create authenticates creds and inserts b in the same transaction. The
// book is attributed to creds.Username.
func (s *Service) Create(ctx context.Context, creds auth.Credentials, b Book) error {
	b.Username = creds.Username
	return s.repo.WithTx(ctx, func(tx Tx) error {
		if err := s.authn.Authenticate(ctx, tx, creds); err != nil {
			return err
		}
		if err := tx.Insert(ctx, b); err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		return nil
	})
}

// Update authenticates creds and replaces the book stored under isbn.
// Zero rows affected yields ErrNotFound.
func (s *Service) Update(ctx context.Context, creds auth.Credentials, isbn string, b Book) error {
	return s.repo.WithTx(ctx, func(tx Tx) error {
		if err := s.authn.Authenticate(ctx, tx, creds); err != nil {
			return err
		}
		n, err := tx.Update(ctx, isbn, b)
		if err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes the book stored under isbn. creds are only checked when
// DeleteRequiresAuth is set.
func (s *Service) Delete(ctx context.Context, creds auth.Credentials, isbn string) error {
	if !s.opts.DeleteRequiresAuth {
		n, err := s.repo.Delete(ctx, isbn)
		return deleteResult(n, err)
	}
	return s.repo.WithTx(ctx, func(tx Tx) error {
		if err := s.authn.Authenticate(ctx, tx, creds); err != nil {
			return err
		}
		return deleteResult(tx.Delete(ctx, isbn))
	})
}

func deleteResult(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
