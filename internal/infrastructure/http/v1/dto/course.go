package dto

import (
	"time"

	"electa/internal/domain/catalog/course"
)

// CourseResponse contains course fields.
type CourseResponse struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	TechQuota int       `json:"techQuota"`
	HumQuota  int       `json:"humQuota"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromCourse creates CourseResponse from the domain entity.
func FromCourse(c *course.Course) CourseResponse {
	return CourseResponse{
		ID:        c.ID.String(),
		Version:   c.Version,
		Name:      c.Name,
		TechQuota: c.TechQuota,
		HumQuota:  c.HumQuota,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateCourseRequest for creating courses.
type CreateCourseRequest struct {
	Name      string `json:"name" binding:"required"`
	TechQuota int    `json:"techQuota" binding:"min=0"`
	HumQuota  int    `json:"humQuota" binding:"min=0"`
}

// UpdateCourseRequest for updating courses.
type UpdateCourseRequest struct {
	Name      *string `json:"name"`
	TechQuota *int    `json:"techQuota"`
	HumQuota  *int    `json:"humQuota"`
	Version   int     `json:"version" binding:"required,min=1"`
}
