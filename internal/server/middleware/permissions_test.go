package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHasPermission(t *testing.T) {
	if HasPermission(nil, "report.view") {
		t.Fatalf("expected no permission for nil user")
	}

	user := &AppUser{UserID: 1, Role: "user", Permissions: []string{"report.view"}}
	if !HasPermission(user, "report.view") {
		t.Fatalf("expected permission report.view to be granted")
	}
	if HasPermission(user, "report.delete") {
		t.Fatalf("expected permission report.delete to be denied")
	}
}

func runPermissionMiddleware(t *testing.T, user *AppUser, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	cc := &AppContext{e.NewContext(req, rec), &App{}, user}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(cc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

func TestRequirePermission(t *testing.T) {
	rec := runPermissionMiddleware(t, nil, RequirePermission("report.view"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status:\nexpected: %d\nreceived: %d", http.StatusUnauthorized, rec.Code)
	}

	user := &AppUser{UserID: 1, Role: "user", Permissions: []string{"dataset.view"}}
	rec = runPermissionMiddleware(t, user, RequirePermission("report.view"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status:\nexpected: %d\nreceived: %d", http.StatusForbidden, rec.Code)
	}

	user.Permissions = append(user.Permissions, "report.view")
	rec = runPermissionMiddleware(t, user, RequirePermission("report.view"))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status:\nexpected: %d\nreceived: %d", http.StatusOK, rec.Code)
	}
}

func TestRequireAnyPermission(t *testing.T) {
	user := &AppUser{UserID: 1, Role: "user", Permissions: []string{"report.view"}}
	rec := runPermissionMiddleware(t, user, RequireAnyPermission("evaluation.view", "report.view"))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status:\nexpected: %d\nreceived: %d", http.StatusOK, rec.Code)
	}

	rec = runPermissionMiddleware(t, user, RequireAnyPermission("evaluation.create", "dataset.upload"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status:\nexpected: %d\nreceived: %d", http.StatusForbidden, rec.Code)
	}
}
