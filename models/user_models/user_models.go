package user_models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role is the marketplace role carried in an access token.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole accepts a role name in any case, with or without a ROLE_ prefix.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the authenticated caller of a request. It is derived from the
// bearer token on every request and passed explicitly into each operation.
type Principal struct {
	UserID uuid.UUID `json:"userId"`
	Role   Role      `json:"role"`
}

func (p Principal) Is(role Role) bool {
	return p.Role == role
}

func (p Principal) String() string {
	return fmt.Sprintf("%s(%s)", p.Role, p.UserID)
}
