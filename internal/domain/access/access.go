// Package access is the domain-level authorization gate. It reasons only
// about the identity already placed in the context by the boundary layer;
// it never inspects tokens or credentials.
package access

import (
	"context"

	"electa/internal/core/apperror"
	appctx "electa/internal/core/context"
)

// Require ensures the context carries an authenticated identity holding one
// of the given roles. With no roles given, any authenticated identity
// passes. Returns Unauthorized when no identity is present and Forbidden
// when the identity lacks every listed role.
func Require(ctx context.Context, roles ...string) (*appctx.UserContext, error) {
	u := appctx.GetUser(ctx)
	if u == nil {
		return nil, apperror.NewUnauthorized("authentication required")
	}
	if len(roles) == 0 {
		return u, nil
	}
	for _, role := range roles {
		if u.Role == role {
			return u, nil
		}
	}
	return nil, apperror.NewForbidden("insufficient role").
		WithDetail("required", roles).
		WithDetail("actual", u.Role)
}

// RequireAdmin ensures the context carries an Admin identity.
func RequireAdmin(ctx context.Context) (*appctx.UserContext, error) {
	return Require(ctx, "Admin")
}
