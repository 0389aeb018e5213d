package auth

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials means no user row matches the submitted pair.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnknownUser is returned by CredentialStore.StoredPassword.
	ErrUnknownUser = errors.New("user not found")
)

// Credentials are resubmitted with every mutating request; there is no session.
type Credentials struct {
	Username string
	Password string
}

// CredentialStore reads the users table. Implementations may be bound to a
// transaction so the check and the write that follows share it.
type CredentialStore interface {
	MatchPlain(ctx context.Context, username, password string) (bool, error)
	StoredPassword(ctx context.Context, username string) (string, error)
}

// Authenticator decides whether creds belong to a stored user. It returns
// nil, ErrInvalidCredentials or a store error.
type Authenticator interface {
	Authenticate(ctx context.Context, store CredentialStore, creds Credentials) error
}

// PlainAuthenticator compares the password as stored, byte for byte.
type PlainAuthenticator struct{}

func (PlainAuthenticator) Authenticate(ctx context.Context, store CredentialStore, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrInvalidCredentials
	}
	ok, err := store.MatchPlain(ctx, creds.Username, creds.Password)
	if err != nil {
		return fmt.Errorf("match credentials: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}

// BcryptAuthenticator expects users.password to hold a bcrypt hash.
type BcryptAuthenticator struct{}

func (BcryptAuthenticator) Authenticate(ctx context.Context, store CredentialStore, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrInvalidCredentials
	}
	hash, err := store.StoredPassword(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("load password: %w", err)
	}
	if !VerifyPassword(hash, creds.Password) {
		return ErrInvalidCredentials
	}
	return nil
}

// New returns the authenticator for an AUTH_MODE value.
func New(mode string) (Authenticator, error) {
	switch mode {
	case "", "plain":
		return PlainAuthenticator{}, nil
	case "bcrypt":
		return BcryptAuthenticator{}, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", mode)
	}
}
