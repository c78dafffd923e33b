package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/R3almCollectibles/session-gateway/internal/api/metrics"
	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

// ClientID extracts and validates the client ID claim from the request's
// bearer token. The second return is false when no valid token is present.
func ClientID(c echo.Context, jwtSecret string) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	cid, _ := claims["cid"].(string)
	return cid, cid != ""
}

// RequireAuth guards a route behind an authenticated session. It validates
// the client token, reads the client's session store, and:
//
//   - while the session is still bootstrapping, answers 503 with a
//     Retry-After hint — no admission decision is taken during the
//     bootstrap window;
//   - with no principal, answers 401;
//   - otherwise injects client_id, principal and resolved role into the
//     request context and calls the next handler.
//
// The guard holds no state of its own; every request re-reads the store.
func RequireAuth(jwtSecret string, sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cid, ok := ClientID(c, jwtSecret)
			if !ok {
				metrics.GateDecisionsTotal.WithLabelValues("auth", "unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
			}

			sess := sessions.Snapshot(c.Request().Context(), cid)
			switch sess.State() {
			case domain.StatePending:
				metrics.GateDecisionsTotal.WithLabelValues("auth", "pending").Inc()
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session is loading")
			case domain.StateUnauthenticated:
				metrics.GateDecisionsTotal.WithLabelValues("auth", "unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
			}

			metrics.GateDecisionsTotal.WithLabelValues("auth", "admitted").Inc()
			c.Set("client_id", cid)
			c.Set("principal", sess.Principal)
			c.Set("role", string(domain.ResolveRole(sess.Principal)))

			return next(c)
		}
	}
}
