package session

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole string

const (
	// RoleStandard is the default role assigned at registration
	RoleStandard UserRole = "standard"
	// RoleAdmin grants access to admin gated routes
	RoleAdmin UserRole = "admin"
)

// UserStatus is the user's lifecycle status
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusPending   UserStatus = "pending"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDisabled  UserStatus = "disabled"
)

// User is the credential record model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Status        UserStatus `bun:"status" json:"status,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus backfills the zero value so legacy rows behave as active.
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive || u.Status == ""
}

func (u *User) IsPending() bool {
	return u.Status == UserStatusPending
}

func (u *User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

func (u *User) IsDisabled() bool {
	return u.Status == UserStatusDisabled
}

// PublicUser is the projection returned to clients. It never carries the
// password hash; Status is only populated for profile fetches.
type PublicUser struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   UserRole   `json:"role"`
	Status UserStatus `json:"status,omitempty"`
}

// Projection shapes the public view of a record.
func (u *User) Projection(includeStatus bool) PublicUser {
	p := PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}

	if includeStatus {
		u.EnsureStatus()
		p.Status = u.Status
	}

	return p
}

func statusAuthError(status UserStatus) error {
	switch status {
	case UserStatusSuspended:
		return goerrors.New("account is suspended", goerrors.CategoryAuth).
			WithTextCode("ACCOUNT_SUSPENDED").
			WithCode(goerrors.CodeUnauthorized)
	case UserStatusDisabled:
		return goerrors.New("account is disabled", goerrors.CategoryAuth).
			WithTextCode("ACCOUNT_DISABLED").
			WithCode(goerrors.CodeUnauthorized)
	default:
		return nil
	}
}
