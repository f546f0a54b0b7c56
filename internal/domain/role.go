package domain

import "errors"

// Role represents a caller's access level
type Role string

const (
	// RoleAdmin has full access to all operations
	RoleAdmin Role = "admin"

	// RoleOperator can originate loans and register payments
	RoleOperator Role = "operator"

	// RoleViewer can only read loans and schedules
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanCreate checks if the role can create resources
func (r Role) CanCreate() bool {
	return r == RoleAdmin || r == RoleOperator
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
