package core

import (
	"context"
	"time"
)

// Operator roles.
const (
	RoleAdmin     = "admin"
	RoleProduksi  = "produksi"
	RolePackaging = "packaging"
)

// ValidRole reports whether role is one of the operator roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProduksi, RolePackaging:
		return true
	}
	return false
}

// User represents an operator account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created"`
}

// Actor returns the audit identity of u.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

// UserService provides operator lookup and credential checks.
type UserService interface {
	Create(ctx context.Context, username, password, role string) (*User, error)
	// Authenticate returns the active user matching the credentials, or ErrValidation.
	Authenticate(ctx context.Context, username, password string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, userID int64) (*User, error)
}
