package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

func invokeWithRole(t *testing.T, mw echo.MiddlewareFunc, role string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/studio/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []domain.Role
		role     string
		wantCode int
	}{
		{"creator admitted", []domain.Role{domain.RoleCreator, domain.RoleAdmin}, "creator", http.StatusOK},
		{"admin admitted", []domain.Role{domain.RoleCreator, domain.RoleAdmin}, "admin", http.StatusOK},
		{"collector refused", []domain.Role{domain.RoleCreator, domain.RoleAdmin}, "collector", http.StatusForbidden},
		{"investor refused", []domain.Role{domain.RoleAdmin}, "investor", http.StatusForbidden},
		{"no role in context", []domain.Role{domain.RoleAdmin}, "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := invokeWithRole(t, RequireRole(tt.allowed...), tt.role)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
