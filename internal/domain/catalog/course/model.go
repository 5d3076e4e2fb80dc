// Package course provides the Course catalog. A course is a quota-bearing
// bucket that electives map into: each course carries separate seat quotas
// for the Tech and Hum categories.
package course

import (
	"context"

	"electa/internal/core/apperror"
	"electa/internal/core/entity"
)

// Course represents a quota bucket in the catalog.
type Course struct {
	entity.Base

	// Name is the unique human-facing identifier
	Name string `db:"name" json:"name"`

	// TechQuota is the number of seats reserved for Tech electives
	TechQuota int `db:"tech_quota" json:"techQuota"`

	// HumQuota is the number of seats reserved for Hum electives
	HumQuota int `db:"hum_quota" json:"humQuota"`
}

// NewCourse creates a new Course with required fields.
func NewCourse(name string, techQuota, humQuota int) *Course {
	return &Course{
		Base:      entity.NewBase(),
		Name:      name,
		TechQuota: techQuota,
		HumQuota:  humQuota,
	}
}

// Validate implements entity.Validatable interface.
func (c *Course) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if c.TechQuota < 0 {
		return apperror.NewValidation("tech quota must not be negative").
			WithDetail("field", "techQuota")
	}
	if c.HumQuota < 0 {
		return apperror.NewValidation("hum quota must not be negative").
			WithDetail("field", "humQuota")
	}
	return nil
}
