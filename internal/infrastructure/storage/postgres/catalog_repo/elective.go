package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"electa/internal/core/id"
	"electa/internal/domain"
	"electa/internal/domain/catalog/elective"
	"electa/internal/infrastructure/storage/postgres"
)

const (
	electiveTable       = "electives"
	electiveCourseTable = "elective_courses"
)

// ElectiveRepo implements elective.Repository. Course associations live in
// a join table and are hydrated onto Elective.CourseIDs on every read.
type ElectiveRepo struct {
	*BaseCatalogRepo[*elective.Elective]
}

// NewElectiveRepo creates a new elective repository.
func NewElectiveRepo(txm *postgres.TxManager) *ElectiveRepo {
	return &ElectiveRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(BaseRepoConfig[*elective.Elective]{
			TxManager:  txm,
			TableName:  electiveTable,
			KeyCol:     "code",
			SearchCols: []string{"code", "title", "instructor"},
			NewFn:      func() *elective.Elective { return &elective.Elective{} },
		}),
	}
}

// GetByID retrieves an elective with its course associations.
func (r *ElectiveRepo) GetByID(ctx context.Context, electiveID id.ID) (*elective.Elective, error) {
	e, err := r.BaseCatalogRepo.GetByID(ctx, electiveID)
	if err != nil {
		return nil, err
	}
	if err := r.loadCourseIDs(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetByKey retrieves an elective by code with its course associations.
func (r *ElectiveRepo) GetByKey(ctx context.Context, code string) (*elective.Elective, error) {
	e, err := r.BaseCatalogRepo.GetByKey(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := r.loadCourseIDs(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List retrieves electives with their course associations.
func (r *ElectiveRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*elective.Elective], error) {
	result, err := r.BaseCatalogRepo.List(ctx, filter)
	if err != nil {
		return result, err
	}
	for _, e := range result.Items {
		if err := r.loadCourseIDs(ctx, e); err != nil {
			return result, err
		}
	}
	return result, nil
}

// SetCourses replaces the course associations of an elective.
func (r *ElectiveRepo) SetCourses(ctx context.Context, electiveID id.ID, courseIDs []id.ID) error {
	del := r.Builder().
		Delete(electiveCourseTable).
		Where(squirrel.Eq{"elective_id": electiveID})

	sql, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete associations: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete associations: %w", err)
	}

	if len(courseIDs) == 0 {
		return nil
	}

	ins := r.Builder().
		Insert(electiveCourseTable).
		Columns("elective_id", "course_id")
	for _, cid := range courseIDs {
		ins = ins.Values(electiveID, cid)
	}

	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert associations: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert associations: %w", err)
	}

	return nil
}

// ListByCourse retrieves all electives mapped into the given course.
func (r *ElectiveRepo) ListByCourse(ctx context.Context, courseID id.ID) ([]*elective.Elective, error) {
	cols := make([]string, 0, 8)
	for _, c := range postgres.ExtractDBColumns[elective.Elective]() {
		cols = append(cols, "e."+c)
	}

	q := r.Builder().
		Select(cols...).
		From(electiveTable + " e").
		Join(electiveCourseTable + " ec ON ec.elective_id = e.id").
		Where(squirrel.Eq{"ec.course_id": courseID}).
		OrderBy("e.code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*elective.Elective
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by course: %w", err)
	}

	for _, e := range items {
		if err := r.loadCourseIDs(ctx, e); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// CountByCourse reports how many electives reference the given course.
func (r *ElectiveRepo) CountByCourse(ctx context.Context, courseID id.ID) (int64, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(electiveCourseTable).
		Where(squirrel.Eq{"course_id": courseID})

	return r.count(ctx, q)
}

// CountAssociations reports the total number of elective-course links.
func (r *ElectiveRepo) CountAssociations(ctx context.Context) (int64, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(electiveCourseTable)

	return r.count(ctx, q)
}

func (r *ElectiveRepo) count(ctx context.Context, q squirrel.SelectBuilder) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (r *ElectiveRepo) loadCourseIDs(ctx context.Context, e *elective.Elective) error {
	q := r.Builder().
		Select("course_id").
		From(electiveCourseTable).
		Where(squirrel.Eq{"elective_id": e.ID}).
		OrderBy("course_id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var courseIDs []id.ID
	if err := pgxscan.Select(ctx, r.Querier(ctx), &courseIDs, sql, args...); err != nil {
		return fmt.Errorf("load course ids: %w", err)
	}

	e.CourseIDs = courseIDs
	return nil
}
