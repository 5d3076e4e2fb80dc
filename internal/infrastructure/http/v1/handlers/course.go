package handlers

import (
	"electa/internal/domain/catalog/course"
	"electa/internal/infrastructure/http/v1/dto"
)

// CourseHTTPHandler is the configured generic handler for courses.
type CourseHTTPHandler = CatalogHandler[
	*course.Course,
	dto.CreateCourseRequest,
	dto.UpdateCourseRequest,
]

// NewCourseHandler wires the course service into the generic catalog handler.
func NewCourseHandler(base *BaseHandler, service *course.Service) *CourseHTTPHandler {
	config := CatalogHandlerConfig[
		*course.Course,
		dto.CreateCourseRequest,
		dto.UpdateCourseRequest,
	]{
		Service:      service,
		EntityName:   "course",
		DefaultOrder: "name",

		MapCreateDTO: func(req dto.CreateCourseRequest) (*course.Course, error) {
			return course.NewCourse(req.Name, req.TechQuota, req.HumQuota), nil
		},

		MapUpdateDTO: func(req dto.UpdateCourseRequest, existing *course.Course) (*course.Course, error) {
			if req.Name != nil {
				existing.Name = *req.Name
			}
			if req.TechQuota != nil {
				existing.TechQuota = *req.TechQuota
			}
			if req.HumQuota != nil {
				existing.HumQuota = *req.HumQuota
			}
			existing.SetVersion(req.Version)
			existing.Touch()
			return existing, nil
		},

		MapToDTO: func(c *course.Course) any {
			return dto.FromCourse(c)
		},
	}

	return NewCatalogHandler(base, config)
}
