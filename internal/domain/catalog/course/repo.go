package course

import (
	"electa/internal/domain"
)

// Repository defines the interface for Course persistence.
// The natural key is the course name.
type Repository interface {
	domain.CatalogRepository[*Course]
}
