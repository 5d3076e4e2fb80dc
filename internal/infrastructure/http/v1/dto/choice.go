package dto

import (
	"time"

	"electa/internal/domain/choice"
)

// ChoiceResponse contains one ranked selection.
type ChoiceResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ElectiveID string    `json:"electiveId"`
	Priority   int       `json:"priority"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FromChoice creates ChoiceResponse from the domain entity.
func FromChoice(c *choice.Choice) ChoiceResponse {
	return ChoiceResponse{
		ID:         c.ID.String(),
		UserID:     c.UserID.String(),
		ElectiveID: c.ElectiveID.String(),
		Priority:   c.Priority,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// FromChoices maps a slice of choices.
func FromChoices(choices []*choice.Choice) []ChoiceResponse {
	out := make([]ChoiceResponse, len(choices))
	for i, c := range choices {
		out[i] = FromChoice(c)
	}
	return out
}

// ReplaceChoicesRequest replaces the caller's entire ranked selection.
// Position in the list is the rank: first entry becomes priority 1.
type ReplaceChoicesRequest struct {
	ElectiveIDs []string `json:"electiveIds"`
}
