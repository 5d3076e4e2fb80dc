package access

import (
	"context"
	"testing"

	"electa/internal/core/apperror"
	appctx "electa/internal/core/context"
)

func authedCtx(role string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: "uid-1",
		Role:   role,
	})
}

func TestRequire_NoIdentity(t *testing.T) {
	_, err := Require(context.Background())
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRequire_AnyAuthenticatedPassesWithoutRoles(t *testing.T) {
	u, err := Require(authedCtx("Student"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.UserID != "uid-1" {
		t.Errorf("expected identity returned, got %+v", u)
	}
}

func TestRequire_MatchingRole(t *testing.T) {
	if _, err := Require(authedCtx("Instructor"), "Admin", "Instructor"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequire_MissingRole(t *testing.T) {
	_, err := Require(authedCtx("Student"), "Admin")
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	if _, err := RequireAdmin(authedCtx("Admin")); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	if _, err := RequireAdmin(authedCtx("Student")); err == nil {
		t.Fatal("student should not pass admin gate")
	}
}
