package elective

import (
	"context"

	"electa/internal/core/id"
	"electa/internal/domain"
)

// Repository defines the interface for Elective persistence.
// The natural key is the elective code.
type Repository interface {
	domain.CatalogRepository[*Elective]

	// SetCourses replaces the course associations of an elective
	SetCourses(ctx context.Context, electiveID id.ID, courseIDs []id.ID) error

	// ListByCourse retrieves all electives mapped into the given course
	ListByCourse(ctx context.Context, courseID id.ID) ([]*Elective, error)

	// CountByCourse reports how many electives reference the given course
	CountByCourse(ctx context.Context, courseID id.ID) (int64, error)

	// CountAssociations reports the total number of elective-course links
	CountAssociations(ctx context.Context) (int64, error)
}
