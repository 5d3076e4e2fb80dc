package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
	"electa/internal/domain/catalog/elective"
	"electa/internal/infrastructure/http/v1/dto"
)

// ElectiveHandler serves the elective catalog: generic CRUD plus the CSV
// bulk import endpoint.
type ElectiveHandler struct {
	*CatalogHandler[*elective.Elective, dto.CreateElectiveRequest, dto.UpdateElectiveRequest]
	service *elective.Service
}

// NewElectiveHandler wires the elective service into the generic catalog
// handler and adds the import endpoint on top.
func NewElectiveHandler(base *BaseHandler, service *elective.Service) *ElectiveHandler {
	config := CatalogHandlerConfig[
		*elective.Elective,
		dto.CreateElectiveRequest,
		dto.UpdateElectiveRequest,
	]{
		Service:      service,
		EntityName:   "elective",
		DefaultOrder: "code",

		MapCreateDTO: func(req dto.CreateElectiveRequest) (*elective.Elective, error) {
			e := elective.NewElective(req.Code, req.Title, req.Instructor, elective.Category(req.Category))
			e.Description = req.Description
			courseIDs, err := parseIDs(req.CourseIDs)
			if err != nil {
				return nil, err
			}
			e.SetCourseIDs(courseIDs)
			return e, nil
		},

		MapUpdateDTO: func(req dto.UpdateElectiveRequest, existing *elective.Elective) (*elective.Elective, error) {
			if req.Code != nil {
				existing.Code = *req.Code
			}
			if req.Title != nil {
				existing.Title = *req.Title
			}
			if req.Description != nil {
				existing.Description = req.Description
			}
			if req.Instructor != nil {
				existing.Instructor = *req.Instructor
			}
			if req.Category != nil {
				existing.Category = elective.Category(*req.Category)
			}
			if req.CourseIDs != nil {
				courseIDs, err := parseIDs(*req.CourseIDs)
				if err != nil {
					return nil, err
				}
				existing.SetCourseIDs(courseIDs)
			}
			existing.SetVersion(req.Version)
			existing.Touch()
			return existing, nil
		},

		MapToDTO: func(e *elective.Elective) any {
			return dto.FromElective(e)
		},
	}

	return &ElectiveHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ListByCourse handles GET /courses/:id/electives. Returns every elective
// mapped into the course bucket.
func (h *ElectiveHandler) ListByCourse(c *gin.Context) {
	courseID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("value", c.Param("id")))
		return
	}

	electives, err := h.service.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.ElectiveResponse, len(electives))
	for i, e := range electives {
		out[i] = dto.FromElective(e)
	}
	c.JSON(http.StatusOK, out)
}

// ImportFromFile handles POST /electives/from_file.
// Accepts a UTF-8 CSV with a header row; rows whose code already exists are
// skipped and reported, the rest are created.
func (h *ElectiveHandler) ImportFromFile(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required").WithDetail("error", err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read uploaded file"))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read uploaded file"))
		return
	}
	if !utf8.Valid(raw) {
		h.Error(c, apperror.NewValidation("file must be UTF-8 encoded"))
		return
	}

	rows, err := parseElectiveCSV(string(raw))
	if err != nil {
		h.Error(c, err)
		return
	}
	if len(rows) == 0 {
		h.Error(c, apperror.NewValidation("no elective records found in file"))
		return
	}

	result, err := h.service.ImportBatch(ctx, rows)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromImportResult(result))
}

// parseElectiveCSV reads a header-keyed CSV into elective rows.
// Recognized columns: code, title, description, instructor, category, and
// courses (course IDs separated by ";").
func parseElectiveCSV(text string) ([]*elective.Elective, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperror.NewValidation("cannot parse CSV header").WithDetail("error", fmt.Sprint(err))
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"code", "title", "category"} {
		if _, ok := col[required]; !ok {
			return nil, apperror.NewValidation("missing required CSV column").
				WithDetail("column", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []*elective.Elective
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperror.NewValidation("invalid data in CSV row").
				WithDetail("line", line).
				WithDetail("error", fmt.Sprint(err))
		}

		e := elective.NewElective(
			field(record, "code"),
			field(record, "title"),
			field(record, "instructor"),
			elective.Category(field(record, "category")),
		)
		if desc := field(record, "description"); desc != "" {
			e.Description = &desc
		}

		if courses := field(record, "courses"); courses != "" {
			var courseIDs []id.ID
			for _, part := range strings.Split(courses, ";") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				cid, err := id.Parse(part)
				if err != nil {
					return nil, apperror.NewValidation("invalid course id in CSV row").
						WithDetail("line", line).
						WithDetail("value", part)
				}
				courseIDs = append(courseIDs, cid)
			}
			e.SetCourseIDs(courseIDs)
		}

		rows = append(rows, e)
	}

	return rows, nil
}

func parseIDs(raw []string) ([]id.ID, error) {
	ids := make([]id.ID, 0, len(raw))
	for _, s := range raw {
		parsed, err := id.Parse(s)
		if err != nil {
			return nil, apperror.NewValidation("invalid id format").WithDetail("value", s)
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}
