package users

import (
	"fmt"
	"time"
)

// Role is the coarse access level stored on a user account. Authorization
// logic beyond storing and gating on the role lives outside this core.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole validates a stored role value.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleGuest, RoleUser, RoleAdmin, RoleSuperadmin:
		return Role(value), nil
	default:
		return "", fmt.Errorf("users: unknown role %q", value)
	}
}

// AtLeast reports whether the role grants at least the given level.
func (r Role) AtLeast(min Role) bool {
	return roleRank(r) >= roleRank(min)
}

func roleRank(r Role) int {
	switch r {
	case RoleSuperadmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// User represents a reference-library account.
type User struct {
	ID        int64
	Username  string
	Email     string
	Slug      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
