// Package user holds accounts provisioned from the identity provider.
package user

import (
	"context"
	"fmt"

	"electa/internal/core/apperror"
	"electa/internal/core/entity"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStudent, RoleInstructor:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is an account mirrored from the identity provider. SSOID is the
// stable subject identifier; name, email, and role are refreshed on every
// login.
type User struct {
	entity.Base

	// SSOID is the subject identifier issued by the identity provider
	SSOID string `db:"sso_id" json:"ssoId"`

	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Role  Role   `db:"role" json:"role"`
}

// NewUser creates a user record for an identity-provider subject.
func NewUser(ssoID, email, name string, role Role) *User {
	return &User{
		Base:  entity.NewBase(),
		SSOID: ssoID,
		Email: email,
		Name:  name,
		Role:  role,
	}
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate implements entity.Validatable interface.
func (u *User) Validate(ctx context.Context) error {
	if u.SSOID == "" {
		return apperror.NewValidation("sso_id is required").
			WithDetail("field", "sso_id")
	}
	if u.Email == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		return apperror.NewValidation("invalid role").
			WithDetail("field", "role").
			WithDetail("value", string(u.Role))
	}
	return nil
}
