package choice

import (
	"context"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
	"electa/internal/core/tx"
	"electa/pkg/logger"
)

// ElectiveResolver answers whether a referenced elective exists.
// Implemented by the elective repository.
type ElectiveResolver interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Service maintains a user's ranked selection. Every mutation leaves the
// priorities dense (exactly 1..N) and the elective set duplicate-free.
type Service struct {
	repo      Repository
	electives ElectiveResolver
	txManager tx.Manager
}

// NewService creates a new Choice service.
func NewService(repo Repository, electives ElectiveResolver, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		electives: electives,
		txManager: txManager,
	}
}

// List returns the user's choices ordered by priority ascending.
func (s *Service) List(ctx context.Context, userID id.ID) ([]*Choice, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByElective returns every user's choice referencing the elective.
// Used by admins to gauge demand for an elective.
func (s *Service) ListByElective(ctx context.Context, electiveID id.ID) ([]*Choice, error) {
	return s.repo.ListByElective(ctx, electiveID)
}

// ReplaceAll swaps the user's entire selection for the given electives,
// ranked by position: the first ID becomes priority 1 and so on. An empty
// slice clears the selection. All validation happens before any row is
// touched, so a rejected request leaves the previous selection intact.
func (s *Service) ReplaceAll(ctx context.Context, userID id.ID, electiveIDs []id.ID) ([]*Choice, error) {
	if len(electiveIDs) > MaxChoices {
		return nil, apperror.NewValidation("too many choices").
			WithDetail("max", MaxChoices).
			WithDetail("got", len(electiveIDs))
	}

	seen := make(map[id.ID]struct{}, len(electiveIDs))
	for _, eid := range electiveIDs {
		seen[eid] = struct{}{}
	}
	if len(seen) != len(electiveIDs) {
		return nil, apperror.NewDuplicateChoice()
	}

	choices := make([]*Choice, 0, len(electiveIDs))
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var missing []id.ID
		for _, eid := range electiveIDs {
			ok, err := s.electives.Exists(ctx, eid)
			if err != nil {
				return err
			}
			if !ok {
				missing = append(missing, eid)
			}
		}
		if len(missing) > 0 {
			return apperror.NewUnknownReferences("elective", missing)
		}

		if _, err := s.repo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		for i, eid := range electiveIDs {
			c := NewChoice(userID, eid, i+1)
			if err := s.repo.Add(ctx, c); err != nil {
				return err
			}
			choices = append(choices, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "choices replaced",
		"user_id", userID.String(),
		"count", len(choices))

	return choices, nil
}

// RemoveAtPriority drops the choice at the given rank and closes the gap:
// every choice ranked below it moves up by one. Returns the selection that
// remains, ordered by priority. A rank nobody holds, however large, is a
// not-found, not a validation error.
func (s *Service) RemoveAtPriority(ctx context.Context, userID id.ID, priority int) ([]*Choice, error) {
	if priority < 1 {
		return nil, apperror.NewValidation("priority must be positive").
			WithDetail("got", priority)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		target, err := s.repo.GetByUserPriority(ctx, userID, priority)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("choice", priority)
			}
			return err
		}
		if err := s.repo.Delete(ctx, target.ID); err != nil {
			return err
		}
		return s.repo.ShiftDown(ctx, userID, priority)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.ListByUser(ctx, userID)
}
