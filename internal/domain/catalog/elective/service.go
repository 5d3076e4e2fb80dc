package elective

import (
	"context"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
	"electa/internal/core/tx"
	"electa/internal/domain"
	"electa/pkg/logger"
)

// CourseResolver answers whether a referenced course exists.
// Implemented by the course repository; kept narrow so the elective domain
// does not depend on the full course package surface.
type CourseResolver interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// ImportResult summarizes a batch import.
type ImportResult struct {
	Imported []*Elective  `json:"imported"`
	Skipped  []SkippedRow `json:"skipped"`
}

// SkippedRow pairs a rejected input row with the catalog entry whose code
// it collided with.
type SkippedRow struct {
	Input    *Elective `json:"input"`
	Existing *Elective `json:"existing"`
}

// Service provides business logic for the Elective catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Elective]
	repo      Repository
	courses   CourseResolver
	txManager tx.Manager
}

// NewService creates a new Elective service.
func NewService(repo Repository, courses CourseResolver, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Elective]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "elective",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		courses:        courses,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.checkCodeUnique)
	base.Hooks().OnBeforeUpdate(svc.checkCodeUnique)
	base.Hooks().OnBeforeCreate(svc.validateCourseRefs)
	base.Hooks().OnBeforeUpdate(svc.validateCourseRefs)

	return svc
}

// Create persists the elective together with its course associations.
// Nested transactions become savepoints, so the row and its links commit
// as one unit.
func (s *Service) Create(ctx context.Context, e *Elective) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.CatalogService.Create(ctx, e); err != nil {
			return err
		}
		return s.repo.SetCourses(ctx, e.ID, e.CourseIDs)
	})
}

// Update persists the elective and replaces its course associations.
func (s *Service) Update(ctx context.Context, e *Elective) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.CatalogService.Update(ctx, e); err != nil {
			return err
		}
		return s.repo.SetCourses(ctx, e.ID, e.CourseIDs)
	})
}

// GetByCode retrieves an elective by its unique code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Elective, error) {
	return s.GetByKey(ctx, code)
}

// ListByCourse retrieves all electives mapped into the given course.
func (s *Service) ListByCourse(ctx context.Context, courseID id.ID) ([]*Elective, error) {
	return s.repo.ListByCourse(ctx, courseID)
}

// ImportBatch creates the given rows one by one. A row whose code already
// exists in the catalog is skipped and reported alongside the entry it
// collided with; rows before and after it are still imported. The batch is
// deliberately not atomic: a partially applied import reports exactly what
// happened instead of throwing away the valid rows.
func (s *Service) ImportBatch(ctx context.Context, rows []*Elective) (*ImportResult, error) {
	result := &ImportResult{
		Imported: make([]*Elective, 0, len(rows)),
		Skipped:  make([]SkippedRow, 0),
	}

	for _, row := range rows {
		existing, err := s.repo.GetByKey(ctx, row.Code)
		if err == nil {
			result.Skipped = append(result.Skipped, SkippedRow{Input: row, Existing: existing})
			continue
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}

		if err := s.Create(ctx, row); err != nil {
			return nil, err
		}
		result.Imported = append(result.Imported, row)
	}

	logger.Info(ctx, "elective import finished",
		"imported", len(result.Imported),
		"skipped", len(result.Skipped))

	return result, nil
}

// checkCodeUnique enforces code uniqueness. Re-saving an entity under its
// own code is not a conflict.
func (s *Service) checkCodeUnique(ctx context.Context, e *Elective) error {
	existing, err := s.repo.GetByKey(ctx, e.Code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != e.ID {
		return apperror.NewDuplicate("elective", "code", e.Code)
	}
	return nil
}

// validateCourseRefs collapses duplicate course IDs and verifies that every
// remaining reference resolves. All dangling IDs are reported together so
// the caller can fix the whole payload in one pass.
func (s *Service) validateCourseRefs(ctx context.Context, e *Elective) error {
	e.SetCourseIDs(e.CourseIDs)

	var missing []id.ID
	for _, cid := range e.CourseIDs {
		ok, err := s.courses.Exists(ctx, cid)
		if err != nil {
			return err
		}
		if !ok {
			missing = append(missing, cid)
		}
	}
	if len(missing) > 0 {
		return apperror.NewUnknownReferences("course", missing)
	}
	return nil
}
