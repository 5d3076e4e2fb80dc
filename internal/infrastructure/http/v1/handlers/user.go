package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
	"electa/internal/domain"
	"electa/internal/domain/choice"
	"electa/internal/domain/user"
	"electa/internal/infrastructure/http/v1/dto"
)

// UserHandler serves the admin-facing account endpoints.
type UserHandler struct {
	*BaseHandler
	users   *user.Service
	choices *choice.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *BaseHandler, users *user.Service, choices *choice.Service) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		users:       users,
		choices:     choices,
	}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "name")

	result, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, u := range result.Items {
		items[i] = dto.FromUser(u)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	userID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(u))
}

// Promote handles POST /users/:id/promote. The path segment is the
// provider subject (sso_id), not the local UUID. Elevates the account to
// Admin.
func (h *UserHandler) Promote(c *gin.Context) {
	ssoID := c.Param("id")
	if ssoID == "" {
		h.Error(c, apperror.NewValidation("sso id is required"))
		return
	}

	u, err := h.users.Promote(c.Request.Context(), ssoID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(u))
}

// GetChoices handles GET /users/:id/choices. Lets an admin inspect another
// user's ranked selection.
func (h *UserHandler) GetChoices(c *gin.Context) {
	userID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	// 404 for unknown users rather than an empty list
	if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}

	choices, err := h.choices.List(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromChoices(choices))
}
