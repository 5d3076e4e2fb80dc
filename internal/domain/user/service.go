package user

import (
	"context"

	"electa/internal/core/apperror"
	"electa/internal/core/tx"
	"electa/internal/domain"
	"electa/pkg/logger"
)

// Service provides business logic for user accounts.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*User]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new User service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*User]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "user",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.checkEmailUnique)
	base.Hooks().OnBeforeUpdate(svc.checkEmailUnique)

	return svc
}

// GetBySSOID retrieves a user by the identity-provider subject.
func (s *Service) GetBySSOID(ctx context.Context, ssoID string) (*User, error) {
	return s.GetByKey(ctx, ssoID)
}

// RegisterSSO reconciles an identity-provider login with the local account
// table. An unknown subject gets a fresh record; a known subject has its
// name, email, and role refreshed from the provider's current claims.
// Idempotent: logging in twice with unchanged claims is a no-op apart from
// the updated_at touch.
func (s *Service) RegisterSSO(ctx context.Context, ssoID, email, name string, role Role) (*User, error) {
	var registered *User
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByKey(ctx, ssoID)
		if err != nil {
			if !apperror.IsNotFound(err) {
				return err
			}
			u := NewUser(ssoID, email, name, role)
			if err := s.Create(ctx, u); err != nil {
				return err
			}
			logger.Info(ctx, "user provisioned from identity provider",
				"sso_id", ssoID, "role", string(role))
			registered = u
			return nil
		}

		existing.Email = email
		existing.Name = name
		existing.Role = role
		if err := s.Update(ctx, existing); err != nil {
			return err
		}
		registered = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registered, nil
}

// Promote elevates the user identified by the given subject to Admin.
func (s *Service) Promote(ctx context.Context, ssoID string) (*User, error) {
	var promoted *User
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.GetBySSOID(ctx, ssoID)
		if err != nil {
			return err
		}
		if u.IsAdmin() {
			promoted = u
			return nil
		}
		u.Role = RoleAdmin
		if err := s.Update(ctx, u); err != nil {
			return err
		}
		promoted = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user promoted to admin", "sso_id", ssoID)
	return promoted, nil
}

// checkEmailUnique enforces email uniqueness across accounts.
func (s *Service) checkEmailUnique(ctx context.Context, u *User) error {
	existing, err := s.repo.GetByEmail(ctx, u.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != u.ID {
		return apperror.NewDuplicate("user", "email", u.Email)
	}
	return nil
}
