// Package choice_repo provides the PostgreSQL implementation of the choice
// repository.
package choice_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
	"electa/internal/domain/choice"
	"electa/internal/infrastructure/storage/postgres"
)

const choiceTable = "choices"

// ChoiceRepo implements choice.Repository.
type ChoiceRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewChoiceRepo creates a new choice repository.
func NewChoiceRepo(txm *postgres.TxManager) *ChoiceRepo {
	return &ChoiceRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[choice.Choice](),
	}
}

func (r *ChoiceRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ChoiceRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Add inserts a new choice row.
func (r *ChoiceRepo) Add(ctx context.Context, c *choice.Choice) error {
	q := r.builder().
		Insert(choiceTable).
		SetMap(postgres.StructToMap(c))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		// Two replace-all calls racing for the same user land here via the
		// (user_id, elective_id) or (user_id, priority) constraints.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("selection was modified concurrently, retry the request").
				WithCause(err)
		}
		return fmt.Errorf("insert choice: %w", err)
	}

	return nil
}

// Delete removes a single choice row.
func (r *ChoiceRepo) Delete(ctx context.Context, choiceID id.ID) error {
	q := r.builder().
		Delete(choiceTable).
		Where(squirrel.Eq{"id": choiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete choice: %w", err)
	}

	return nil
}

// DeleteByUser removes every choice of the user.
func (r *ChoiceRepo) DeleteByUser(ctx context.Context, userID id.ID) (int64, error) {
	q := r.builder().
		Delete(choiceTable).
		Where(squirrel.Eq{"user_id": userID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete choices by user: %w", err)
	}

	return result.RowsAffected(), nil
}

// GetByUserPriority retrieves the user's choice at the exact rank.
func (r *ChoiceRepo) GetByUserPriority(ctx context.Context, userID id.ID, priority int) (*choice.Choice, error) {
	q := r.builder().
		Select(r.cols...).
		From(choiceTable).
		Where(squirrel.Eq{"user_id": userID, "priority": priority}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c choice.Choice
	if err := pgxscan.Get(ctx, r.querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("choice", priority)
		}
		return nil, fmt.Errorf("get by user priority: %w", err)
	}

	return &c, nil
}

// ListByUser retrieves the user's choices ordered by priority ascending.
func (r *ChoiceRepo) ListByUser(ctx context.Context, userID id.ID) ([]*choice.Choice, error) {
	q := r.builder().
		Select(r.cols...).
		From(choiceTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("priority ASC")

	return r.list(ctx, q)
}

// ListByElective retrieves every choice referencing the elective.
func (r *ChoiceRepo) ListByElective(ctx context.Context, electiveID id.ID) ([]*choice.Choice, error) {
	q := r.builder().
		Select(r.cols...).
		From(choiceTable).
		Where(squirrel.Eq{"elective_id": electiveID}).
		OrderBy("user_id ASC", "priority ASC")

	return r.list(ctx, q)
}

func (r *ChoiceRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*choice.Choice, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*choice.Choice
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list choices: %w", err)
	}

	return items, nil
}

// ShiftDown closes the gap left by a removed rank: every choice of the user
// below the given priority moves up by one. Relies on the caller running
// inside a transaction with the delete.
func (r *ChoiceRepo) ShiftDown(ctx context.Context, userID id.ID, abovePriority int) error {
	q := r.builder().
		Update(choiceTable).
		Set("priority", squirrel.Expr("priority - 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Gt{"priority": abovePriority})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build shift: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("shift priorities: %w", err)
	}

	return nil
}
