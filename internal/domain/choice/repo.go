package choice

import (
	"context"

	"electa/internal/core/id"
)

// Repository defines the interface for Choice persistence.
type Repository interface {
	// Add inserts a new choice row
	Add(ctx context.Context, c *Choice) error

	// Delete removes a single choice row
	Delete(ctx context.Context, choiceID id.ID) error

	// DeleteByUser removes every choice of the user, returning the count
	DeleteByUser(ctx context.Context, userID id.ID) (int64, error)

	// GetByUserPriority retrieves the user's choice at the exact rank
	GetByUserPriority(ctx context.Context, userID id.ID, priority int) (*Choice, error)

	// ListByUser retrieves the user's choices ordered by priority ascending
	ListByUser(ctx context.Context, userID id.ID) ([]*Choice, error)

	// ListByElective retrieves every choice referencing the elective
	ListByElective(ctx context.Context, electiveID id.ID) ([]*Choice, error)

	// ShiftDown decrements the priority of the user's choices ranked below
	// the given priority and refreshes their updated_at
	ShiftDown(ctx context.Context, userID id.ID, abovePriority int) error
}
