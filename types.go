package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Name() string
	Email() string
	Role() string
}

// Config holds session options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
}

// CredentialStore is the boundary to the user record store. Implementations
// own password hashing and the uniqueness constraint on email.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, input NewUserInput) (*User, error)
	MatchPassword(record *User, candidate string) error
}

// NewUserInput carries the fields needed to create a credential record.
type NewUserInput struct {
	Name     string
	Email    string
	Password string
	// DeterministicID derives the record ID from the email instead of
	// generating a random UUID.
	DeterministicID bool
}

// TokenStorage is the durable client-side store for the session token.
// Get returns an empty string when the key is absent.
type TokenStorage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
