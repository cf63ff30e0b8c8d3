package session

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API consumers alongside HTTP status codes.
const (
	TextCodeInvalidCreds   = "INVALID_CREDENTIALS"
	TextCodeEmailTaken     = "EMAIL_TAKEN"
	TextCodeUserNotFound   = "USER_NOT_FOUND"
	TextCodeTokenMalformed = "MALFORMED_TOKEN"
	TextCodeTokenExpired   = "TOKEN_EXPIRED"
	TextCodeEmptyPassword  = "EMPTY_PASSWORD"
)

// ErrInvalidCredentials merges "no such user" and "wrong password" into one
// outcome so callers cannot enumerate accounts.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmailTaken is returned when registration hits the unique email constraint.
var ErrEmailTaken = goerrors.New("user with this email already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrUserNotFound is returned when a profile lookup misses.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrTokenMalformed merges corrupt structure, bad signature, and wrong secret
// into a single outcome; decode failures leak nothing about which check failed.
var ErrTokenMalformed = goerrors.New("unable to decode session token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned by the middleware and state holder, never by
// TokenService.Decode itself.
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for decode failures
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsInvalidCredentialsError reports whether err is the merged login failure.
func IsInvalidCredentialsError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.TextCode == TextCodeInvalidCreds
}
