package dto

import (
	"time"

	"electa/internal/domain/catalog/elective"
)

// ElectiveResponse contains elective fields.
type ElectiveResponse struct {
	ID          string    `json:"id"`
	Version     int       `json:"version"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Instructor  string    `json:"instructor"`
	Category    string    `json:"category"`
	CourseIDs   []string  `json:"courseIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromElective creates ElectiveResponse from the domain entity.
func FromElective(e *elective.Elective) ElectiveResponse {
	courseIDs := make([]string, len(e.CourseIDs))
	for i, cid := range e.CourseIDs {
		courseIDs[i] = cid.String()
	}
	return ElectiveResponse{
		ID:          e.ID.String(),
		Version:     e.Version,
		Code:        e.Code,
		Title:       e.Title,
		Description: e.Description,
		Instructor:  e.Instructor,
		Category:    string(e.Category),
		CourseIDs:   courseIDs,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// CreateElectiveRequest for creating electives.
type CreateElectiveRequest struct {
	Code        string   `json:"code" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	Instructor  string   `json:"instructor"`
	Category    string   `json:"category" binding:"required"`
	CourseIDs   []string `json:"courseIds"`
}

// UpdateElectiveRequest for updating electives.
type UpdateElectiveRequest struct {
	Code        *string   `json:"code"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Instructor  *string   `json:"instructor"`
	Category    *string   `json:"category"`
	CourseIDs   *[]string `json:"courseIds"`
	Version     int       `json:"version" binding:"required,min=1"`
}

// ImportResultResponse summarizes a CSV import.
type ImportResultResponse struct {
	Imported []ElectiveResponse `json:"imported"`
	Skipped  []SkippedRowDTO    `json:"skipped"`
}

// SkippedRowDTO pairs a rejected import row with the existing entry.
type SkippedRowDTO struct {
	Input    ElectiveResponse `json:"input"`
	Existing ElectiveResponse `json:"existing"`
}

// FromImportResult creates ImportResultResponse from the domain result.
func FromImportResult(r *elective.ImportResult) ImportResultResponse {
	resp := ImportResultResponse{
		Imported: make([]ElectiveResponse, len(r.Imported)),
		Skipped:  make([]SkippedRowDTO, len(r.Skipped)),
	}
	for i, e := range r.Imported {
		resp.Imported[i] = FromElective(e)
	}
	for i, s := range r.Skipped {
		resp.Skipped[i] = SkippedRowDTO{
			Input:    FromElective(s.Input),
			Existing: FromElective(s.Existing),
		}
	}
	return resp
}
