package domain

import (
	"strings"
	"time"
)

// Role is the authorization role carried by an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultProfileImage is assigned to accounts registered without an avatar.
const DefaultProfileImage = "/images/avatar.jpg"

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account models a registered author or administrator.
//
// TokenVersion is the generation counter embedded in every issued access token.
// It starts at zero and only ever increases; bumping it invalidates every token
// issued before the bump.
type Account struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	ProfileImageURL  string     `json:"profile_image_url"`
	Role             Role       `json:"role"`
	IsSuspended      bool       `json:"is_suspended"`
	SuspendedAt      *time.Time `json:"suspended_at,omitempty"`
	SuspensionReason string     `json:"suspension_reason,omitempty"`
	TokenVersion     int64      `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// PasswordChanged marks PasswordHash as newly set. Repositories only
	// persist the hash when it is true.
	PasswordChanged bool `json:"-"`
	// RevokeTokens asks the next save to bump TokenVersion in the same write.
	RevokeTokens bool `json:"-"`
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// SetPasswordHash replaces the stored hash and flags it for persistence.
func (a *Account) SetPasswordHash(hash string) {
	a.PasswordHash = hash
	a.PasswordChanged = true
}

// Suspend marks the account suspended at the given instant.
func (a *Account) Suspend(reason string, at time.Time) {
	a.IsSuspended = true
	a.SuspendedAt = &at
	a.SuspensionReason = reason
}

// Unsuspend clears every suspension field.
func (a *Account) Unsuspend() {
	a.IsSuspended = false
	a.SuspendedAt = nil
	a.SuspensionReason = ""
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
