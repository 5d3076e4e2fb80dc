package user

import (
	"context"

	"electa/internal/domain"
)

// Repository defines the interface for User persistence.
// The natural key is the identity-provider subject (sso_id).
type Repository interface {
	domain.CatalogRepository[*User]

	// GetByEmail retrieves a user by email address
	GetByEmail(ctx context.Context, email string) (*User, error)
}
