package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a session token.
type Claims interface {
	Subject() string
	UserID() string
	Name() string
	Role() string
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete claims payload embedded in every session token.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID         string `json:"uid,omitempty"`
	DisplayName string `json:"name,omitempty"`
	UserRole    string `json:"role,omitempty"`
}

// Verify interface compliance
var _ Claims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject claim
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Name returns the display name carried by the token
func (c *JWTClaims) Name() string {
	return c.DisplayName
}

// Role returns the global role
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// HasRole checks if the user has a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the user's role is at least the minimum required role
func (c *JWTClaims) IsAtLeast(minRole string) bool {
	return UserRole(c.UserRole).IsAtLeast(UserRole(minRole))
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ExpiredAt reports whether the claims have lapsed at the given instant.
// The expiry claim is epoch seconds but the comparison runs in milliseconds:
// the claims are valid only while now is strictly before the expiry, so a
// token expiring exactly now is already stale.
func (c *JWTClaims) ExpiredAt(now time.Time) bool {
	if c.RegisteredClaims.ExpiresAt == nil {
		return true
	}
	return !(now.UnixMilli() < c.RegisteredClaims.ExpiresAt.Time.Unix()*1000)
}
