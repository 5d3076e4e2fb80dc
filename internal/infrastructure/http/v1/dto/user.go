package dto

import (
	"time"

	"electa/internal/domain/user"
)

// UserResponse contains user account fields.
type UserResponse struct {
	ID        string    `json:"id"`
	SSOID     string    `json:"ssoId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUser creates UserResponse from the domain entity.
func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		SSOID:     u.SSOID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
