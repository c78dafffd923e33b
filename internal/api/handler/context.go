package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

// ctxPrincipal extracts the principal and role injected by the RequireAuth
// guard, failing fast before any service call. Presence of the role proves
// the guard ran; a guarded handler reached without it is a wiring bug, not
// a user error, but it still answers 401 rather than panicking.
func ctxPrincipal(c echo.Context) (*domain.Principal, domain.Role, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	p, _ := c.Get("principal").(*domain.Principal)
	if p == nil {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return p, domain.Role(role), nil
}
