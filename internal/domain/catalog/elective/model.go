// Package elective provides the Elective catalog. An elective is the entry
// a student actually selects: it belongs to a category (Tech or Hum) and
// maps into one or more quota-bearing courses.
package elective

import (
	"context"

	"electa/internal/core/apperror"
	"electa/internal/core/entity"
	"electa/internal/core/id"
)

// Category classifies an elective.
type Category string

const (
	CategoryTech Category = "Tech"
	CategoryHum  Category = "Hum"
)

// Elective represents a selectable catalog entry.
type Elective struct {
	entity.Base

	// Code is the unique human-facing identifier (e.g. "CS101")
	Code string `db:"code" json:"code"`

	// Title is the display name
	Title string `db:"title" json:"title"`

	// Description is a free-form note
	Description *string `db:"description" json:"description,omitempty"`

	// Instructor is the name of the teaching staff member
	Instructor string `db:"instructor" json:"instructor"`

	// Category is Tech or Hum
	Category Category `db:"category" json:"category"`

	// CourseIDs are the quota buckets this elective maps into.
	// Order-irrelevant; duplicates collapse on assignment.
	CourseIDs []id.ID `db:"-" json:"courseIds"`
}

// NewElective creates a new Elective with required fields.
func NewElective(code, title, instructor string, category Category) *Elective {
	return &Elective{
		Base:       entity.NewBase(),
		Code:       code,
		Title:      title,
		Instructor: instructor,
		Category:   category,
	}
}

// SetCourseIDs assigns the associated courses, collapsing duplicates while
// keeping first-seen order stable.
func (e *Elective) SetCourseIDs(courseIDs []id.ID) {
	seen := make(map[id.ID]struct{}, len(courseIDs))
	deduped := make([]id.ID, 0, len(courseIDs))
	for _, cid := range courseIDs {
		if _, ok := seen[cid]; ok {
			continue
		}
		seen[cid] = struct{}{}
		deduped = append(deduped, cid)
	}
	e.CourseIDs = deduped
}

// Validate implements entity.Validatable interface.
func (e *Elective) Validate(ctx context.Context) error {
	if e.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if e.Title == "" {
		return apperror.NewValidation("title is required").
			WithDetail("field", "title")
	}
	if e.Category != CategoryTech && e.Category != CategoryHum {
		return apperror.NewValidation("invalid category").
			WithDetail("field", "category").
			WithDetail("value", string(e.Category))
	}
	return nil
}
