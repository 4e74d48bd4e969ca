package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleModerator, UserRoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may decide listing moderation.
func (r UserRole) CanModerate() bool {
	return r == UserRoleModerator || r == UserRoleAdmin
}

// UserAccount represents an authenticated account within the platform.
// Accounts are created at signup by the auth collaborator and are never
// hard-deleted here. Credits is mutated exclusively through the credit
// store, which refuses any movement that would leave it negative.
type UserAccount struct {
	ID        string
	Email     string
	Name      string
	Credits   int64
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}
