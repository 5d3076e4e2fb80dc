package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"electa/internal/core/apperror"
	"electa/internal/domain/auth"
	"electa/internal/domain/user"
	"electa/internal/infrastructure/http/v1/dto"
	"electa/internal/infrastructure/http/v1/middleware"
	"electa/internal/infrastructure/sso"
)

const stateCookie = "electa_oauth_state"

// AuthHandler drives the identity-provider login flow and session issuance.
type AuthHandler struct {
	*BaseHandler
	ssoClient  *sso.Client
	users      *user.Service
	jwtService *auth.JWTService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, ssoClient *sso.Client, users *user.Service, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		ssoClient:   ssoClient,
		users:       users,
		jwtService:  jwtService,
	}
}

// Login handles GET /auth/login. Redirects the browser to the identity
// provider with a state value bound to this browser via cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := sso.NewState()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	authorizeURL, err := h.ssoClient.AuthorizeURL(c.Request.Context(), state)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, authorizeURL)
}

// Callback handles GET /auth/callback. Verifies state, exchanges the code,
// reconciles the account, and issues a session token.
func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	state := c.Query("state")
	expected, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != expected {
		h.Error(c, apperror.NewUnauthorized("state mismatch"))
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		h.Error(c, apperror.NewUnauthorized("missing authorization code"))
		return
	}

	identity, err := h.ssoClient.Exchange(ctx, code)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("login failed").WithCause(err))
		return
	}

	u, err := h.users.RegisterSSO(ctx, identity.SSOID, identity.Email, identity.Name, roleFromIdentity(identity))
	if err != nil {
		h.Error(c, err)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken(
		u.ID.String(), u.SSOID, u.Email, u.Name, string(u.Role))
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 3600
	}
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, dto.SessionResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      dto.FromUser(u),
	})
}

// Logout handles POST /auth/logout. Sessions are stateless, so logout just
// clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	h.Success(c, "logged out")
}

// Me handles GET /auth/me. Returns the caller's current account record.
func (h *AuthHandler) Me(c *gin.Context) {
	u := h.CurrentUser(c)
	if u == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	account, err := h.users.GetBySSOID(c.Request.Context(), u.SSOID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{User: dto.FromUser(account)})
}

// roleFromIdentity maps provider group membership to a local role.
// Admin wins over Instructor; everyone else is a Student.
func roleFromIdentity(identity *sso.Identity) user.Role {
	if identity.IsAdmin() {
		return user.RoleAdmin
	}
	for _, g := range identity.Groups {
		if strings.EqualFold(g, "instructors") {
			return user.RoleInstructor
		}
	}
	return user.RoleStudent
}
