package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appctx "electa/internal/core/context"
)

type stubValidator struct {
	user *appctx.UserContext
	err  error
}

func (s *stubValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func setupRouter(validator JWTValidator, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	group := r.Group("/", Auth(validator))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"role": user.Role})
	})
	return r
}

func TestAuth_BearerHeader(t *testing.T) {
	r := setupRouter(&stubValidator{user: &appctx.UserContext{UserID: "u1", Role: "Student"}})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Student")
}

func TestAuth_SessionCookie(t *testing.T) {
	r := setupRouter(&stubValidator{user: &appctx.UserContext{UserID: "u1", Role: "Student"}})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "some-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_MissingCredentials(t *testing.T) {
	r := setupRouter(&stubValidator{user: &appctx.UserContext{UserID: "u1"}})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	r := setupRouter(&stubValidator{err: errors.New("expired")})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	admin := &stubValidator{user: &appctx.UserContext{UserID: "u1", Role: "Admin"}}
	student := &stubValidator{user: &appctx.UserContext{UserID: "u2", Role: "Student"}}

	tests := []struct {
		name      string
		validator *stubValidator
		wantCode  int
	}{
		{name: "AdminPasses", validator: admin, wantCode: http.StatusOK},
		{name: "StudentForbidden", validator: student, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(tt.validator, "Admin")

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Authorization", "Bearer token")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestExtractToken_MalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Token abc")

	assert.Empty(t, extractToken(c))
}
