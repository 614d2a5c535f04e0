package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of principal roles. Authorization checks match
// on this enum, never on raw strings.
type Role string

const (
	RoleDriver Role = "DRIVER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole converts an external string into a Role, rejecting anything
// outside the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDriver:
		return RoleDriver, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Account is a named principal that can authenticate against the service.
// SecretHash holds a bcrypt hash of the shared secret; the plaintext is
// never stored.
type Account struct {
	ID         string
	Name       string
	Role       Role
	SecretHash string
	CreatedAt  time.Time
}
