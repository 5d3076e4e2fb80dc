package catalog_repo

import (
	"electa/internal/domain/catalog/course"
	"electa/internal/infrastructure/storage/postgres"
)

const courseTable = "courses"

// CourseRepo implements course.Repository.
type CourseRepo struct {
	*BaseCatalogRepo[*course.Course]
}

// NewCourseRepo creates a new course repository.
func NewCourseRepo(txm *postgres.TxManager) *CourseRepo {
	return &CourseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(BaseRepoConfig[*course.Course]{
			TxManager:  txm,
			TableName:  courseTable,
			KeyCol:     "name",
			SearchCols: []string{"name"},
			NewFn:      func() *course.Course { return &course.Course{} },
		}),
	}
}
