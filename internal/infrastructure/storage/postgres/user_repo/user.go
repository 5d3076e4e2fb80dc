// Package user_repo provides the PostgreSQL implementation of the user
// repository.
package user_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"electa/internal/core/apperror"
	"electa/internal/domain/user"
	"electa/internal/infrastructure/storage/postgres"
	"electa/internal/infrastructure/storage/postgres/catalog_repo"
)

const userTable = "users"

// UserRepo implements user.Repository. The natural key is sso_id.
type UserRepo struct {
	*catalog_repo.BaseCatalogRepo[*user.User]
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{
		BaseCatalogRepo: catalog_repo.NewBaseCatalogRepo(catalog_repo.BaseRepoConfig[*user.User]{
			TxManager:  txm,
			TableName:  userTable,
			KeyCol:     "sso_id",
			SearchCols: []string{"name", "email"},
			NewFn:      func() *user.User { return &user.User{} },
		}),
	}
}

// GetByEmail retrieves a user by email address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[user.User]()...).
		From(userTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u user.User
	if err := pgxscan.Get(ctx, r.Querier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, fmt.Errorf("get by email: %w", err)
	}

	return &u, nil
}
