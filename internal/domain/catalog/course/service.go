package course

import (
	"context"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
	"electa/internal/core/tx"
	"electa/internal/domain"
)

// ReferenceCounter reports how many electives still reference a course.
// Implemented by the elective repository; keeps this package free of an
// import cycle with the elective domain.
type ReferenceCounter interface {
	CountByCourse(ctx context.Context, courseID id.ID) (int64, error)

	// CountAssociations reports the total number of elective-course links.
	CountAssociations(ctx context.Context) (int64, error)
}

// Service provides business logic for the Course catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Course]
	repo Repository
	refs ReferenceCounter
}

// NewService creates a new Course service.
func NewService(repo Repository, refs ReferenceCounter, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Course]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "course",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		refs:           refs,
	}

	base.Hooks().OnBeforeCreate(svc.checkNameUnique)
	base.Hooks().OnBeforeUpdate(svc.checkNameUnique)
	base.Hooks().OnBeforeDelete(svc.rejectReferenced)

	return svc
}

// checkNameUnique enforces name uniqueness. Renaming an entity to its own
// current name is not a conflict.
func (s *Service) checkNameUnique(ctx context.Context, c *Course) error {
	existing, err := s.repo.GetByKey(ctx, c.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewDuplicate("course", "name", c.Name)
	}
	return nil
}

// DeleteAll removes every course. Rejected while any elective still maps
// into a course, for the same reason single deletes are.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.refs.CountAssociations(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, apperror.NewConflict("courses are still referenced by electives").
			WithDetail("associations", n)
	}
	return s.CatalogService.DeleteAll(ctx)
}

// rejectReferenced refuses to delete a course that an elective still maps
// into. Cascade removal would silently orphan the elective's quota setup.
func (s *Service) rejectReferenced(ctx context.Context, c *Course) error {
	n, err := s.refs.CountByCourse(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewConflict("course is still referenced by electives").
			WithDetail("course_id", c.ID.String()).
			WithDetail("referencing_electives", n)
	}
	return nil
}
