package model

import (
	"fmt"
	"time"
)

// User represents an authentication user.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// roleRank orders the roles; unknown roles rank zero.
var roleRank = map[string]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// RoleAtLeast reports whether role is minimum or above. Unknown roles never
// qualify and never serve as a minimum.
func RoleAtLeast(role, minimum string) bool {
	need := roleRank[minimum]
	return need > 0 && roleRank[role] >= need
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return roleRank[role] > 0
}

// ValidatePassword checks the password policy for new passwords.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// CanEditPost reports whether a user with the given role and ID may edit p.
// Managers and admins edit everything; users edit only what they authored.
func CanEditPost(userID int64, role string, p *Post) bool {
	if p == nil {
		return false
	}
	if RoleAtLeast(role, RoleManager) {
		return true
	}
	return RoleAtLeast(role, RoleUser) && p.AuthorID == userID
}
