package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/R3almCollectibles/session-gateway/internal/api/metrics"
	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

// RequireRole enforces role-based access on top of RequireAuth. The role was
// resolved from the principal when the auth guard admitted the request; a
// principal without recognised role metadata resolves to collector and is
// refused here unless collector is in the allowed set.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				metrics.GateDecisionsTotal.WithLabelValues("role", "forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			metrics.GateDecisionsTotal.WithLabelValues("role", "admitted").Inc()
			return next(c)
		}
	}
}
