// Package choice implements a student's prioritized elective selection.
// Per user the set of choices is kept dense: priorities always form the
// exact sequence 1..N with no gaps and no duplicates, and no elective
// appears twice.
package choice

import (
	"time"

	"electa/internal/core/id"
)

// MaxChoices caps how many electives one student may rank.
const MaxChoices = 5

// Choice is one ranked elective selection of a user.
type Choice struct {
	ID         id.ID     `db:"id" json:"id"`
	UserID     id.ID     `db:"user_id" json:"userId"`
	ElectiveID id.ID     `db:"elective_id" json:"electiveId"`

	// Priority is the 1-based rank; 1 is the most wanted
	Priority int `db:"priority" json:"priority"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewChoice creates a choice at the given rank.
func NewChoice(userID, electiveID id.ID, priority int) *Choice {
	now := time.Now().UTC()
	return &Choice{
		ID:         id.New(),
		UserID:     userID,
		ElectiveID: electiveID,
		Priority:   priority,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
