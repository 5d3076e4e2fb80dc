package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
	"electa/internal/domain/choice"
	"electa/internal/infrastructure/http/v1/dto"
)

// ChoiceHandler serves the caller's ranked elective selection.
type ChoiceHandler struct {
	*BaseHandler
	service *choice.Service
}

// NewChoiceHandler creates a new choice handler.
func NewChoiceHandler(base *BaseHandler, service *choice.Service) *ChoiceHandler {
	return &ChoiceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /choices. Returns the caller's selection ordered by
// priority.
func (h *ChoiceHandler) List(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	choices, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromChoices(choices))
}

// Replace handles PUT /choices. Swaps the caller's entire selection; list
// position becomes the rank.
func (h *ChoiceHandler) Replace(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req dto.ReplaceChoicesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	electiveIDs := make([]id.ID, 0, len(req.ElectiveIDs))
	for _, s := range req.ElectiveIDs {
		parsed, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid elective id format").WithDetail("value", s))
			return
		}
		electiveIDs = append(electiveIDs, parsed)
	}

	choices, err := h.service.ReplaceAll(c.Request.Context(), userID, electiveIDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromChoices(choices))
}

// RemoveAtPriority handles DELETE /choices/:priority. Drops the choice at
// that rank and returns the re-ranked remainder.
func (h *ChoiceHandler) RemoveAtPriority(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	priority, err := strconv.Atoi(c.Param("priority"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid priority").WithDetail("value", c.Param("priority")))
		return
	}

	choices, err := h.service.RemoveAtPriority(c.Request.Context(), userID, priority)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromChoices(choices))
}

// ListByElective handles GET /electives/:id/choices. Admin view of who
// ranked the elective and where.
func (h *ChoiceHandler) ListByElective(c *gin.Context) {
	electiveID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("value", c.Param("id")))
		return
	}

	choices, err := h.service.ListByElective(c.Request.Context(), electiveID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromChoices(choices))
}

func (h *ChoiceHandler) callerID(c *gin.Context) (id.ID, bool) {
	u := h.CurrentUser(c)
	if u == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return id.Nil(), false
	}
	userID, err := id.Parse(u.UserID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid session identity"))
		return id.Nil(), false
	}
	return userID, true
}
