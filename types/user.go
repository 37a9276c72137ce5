package types

import (
	"strings"
	"time"
)

// Roles form a closed set. RoleAuthenticated is the default for self-service
// registration; role changes happen only through admin user management.
const (
	RoleAuthenticated = "AUTHENTICATED"
	RoleManager       = "MANAGER"
	RoleAdmin         = "ADMIN"
)

// NormalizeRole returns the canonical uppercase spelling of a role.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// ValidRole reports whether role names a member of the closed role set.
func ValidRole(role string) bool {
	switch NormalizeRole(role) {
	case RoleAuthenticated, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents an account in the system.
// It contains identity, credentials, role, lifecycle state, profile
// metadata, and audit timestamps.
type User struct {
	// ID is the unique identifier of the account. It is generated at
	// creation and never reused.
	ID string `json:"id" db:"id"`

	// Nickname is the unique handle chosen by the user.
	Nickname string `json:"nickname" db:"nickname"`

	// Email is the user's unique email address.
	Email string `json:"email" db:"email"`

	// Role indicates the account's authorization tier. Always stored
	// in canonical uppercase form.
	Role string `json:"role" db:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// EmailVerified is false at creation and flips to true exactly once,
	// when a verification token is redeemed.
	EmailVerified bool `json:"email_verified" db:"email_verified"`

	// IsLocked marks accounts denied authentication, either by the
	// failed-login policy or by an admin.
	IsLocked bool `json:"is_locked" db:"is_locked"`

	// FailedLoginAttempts counts consecutive credential failures. Reset
	// to zero on successful login.
	FailedLoginAttempts int `json:"-" db:"failed_login_attempts"`

	// VerificationTokenHash holds the digest of the outstanding email
	// verification token, if any. The plaintext token is never stored.
	VerificationTokenHash string `json:"-" db:"verification_token_hash"`

	// VerificationExpiresAt bounds the lifetime of the outstanding
	// verification token.
	VerificationExpiresAt *time.Time `json:"-" db:"verification_expires_at"`

	// Profile metadata. Mutable through self-service profile updates.
	FirstName          string `json:"first_name" db:"first_name"`
	LastName           string `json:"last_name" db:"last_name"`
	Bio                string `json:"bio" db:"bio"`
	GithubProfileURL   string `json:"github_profile_url" db:"github_profile_url"`
	LinkedinProfileURL string `json:"linkedin_profile_url" db:"linkedin_profile_url"`
	ProfilePictureURL  string `json:"profile_picture_url" db:"profile_picture_url"`

	// LastLoginAt is stamped on every successful authentication.
	LastLoginAt *time.Time `json:"last_login_at" db:"last_login_at"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent mutation.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfilePatch carries the self-service mutable subset of a user record.
// Security-relevant fields (role, lock state, verification) are deliberately
// absent. Nil fields are left unchanged.
type ProfilePatch struct {
	Nickname           *string `json:"nickname"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	GithubProfileURL   *string `json:"github_profile_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url"`
}

// Apply copies the non-nil patch fields onto u.
func (p ProfilePatch) Apply(u *User) {
	if p.Nickname != nil {
		u.Nickname = strings.TrimSpace(*p.Nickname)
	}
	if p.FirstName != nil {
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.GithubProfileURL != nil {
		u.GithubProfileURL = strings.TrimSpace(*p.GithubProfileURL)
	}
	if p.LinkedinProfileURL != nil {
		u.LinkedinProfileURL = strings.TrimSpace(*p.LinkedinProfileURL)
	}
}
