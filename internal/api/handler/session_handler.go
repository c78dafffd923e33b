package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/R3almCollectibles/session-gateway/internal/api/metrics"
	"github.com/R3almCollectibles/session-gateway/internal/api/middleware"
	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

// SessionHandler exposes the credential operations and session reads.
type SessionHandler struct {
	sessions  ports.SessionService
	jwtSecret string
}

func NewSessionHandler(sessions ports.SessionService, jwtSecret string) *SessionHandler {
	return &SessionHandler{sessions: sessions, jwtSecret: jwtSecret}
}

// clientID returns the caller's client ID from its bearer token, or mints a
// fresh one for first-contact requests. Responses carry a token for the
// minted ID so the client can keep it; a discarded ID would strand any
// notices recorded under it.
func (h *SessionHandler) clientID(c echo.Context) string {
	if cid, ok := middleware.ClientID(c, h.jwtSecret); ok {
		return cid
	}
	return uuid.NewString()
}

// errorBody wraps an error message with the client token when one is known.
func errorBody(err error, token string) map[string]string {
	body := map[string]string{"error": err.Error()}
	if token != "" {
		body["token"] = token
	}
	return body
}

// SignUp registers a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *SessionHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, err := h.sessions.SignUp(c.Request().Context(), h.clientID(c), req.Email, req.Password, req.Name)
	if err != nil {
		status := http.StatusInternalServerError
		result := "error"
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			status, result = http.StatusConflict, "already_registered"
		case errors.Is(err, domain.ErrRateLimited):
			status, result = http.StatusTooManyRequests, "rate_limited"
		case errors.Is(err, domain.ErrInvalidCredentials):
			status, result = http.StatusBadRequest, "error"
		}
		metrics.SignUpsTotal.WithLabelValues(result).Inc()
		return c.JSON(status, errorBody(err, token))
	}

	metrics.SignUpsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "account created, check your email to confirm",
		"token":   token,
	})
}

// SignIn authenticates with email and password.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *SessionHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	sess, token, err := h.sessions.SignIn(c.Request().Context(), h.clientID(c), req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		result := "error"
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			status, result = http.StatusUnauthorized, "invalid_credentials"
		case errors.Is(err, domain.ErrRateLimited):
			status, result = http.StatusTooManyRequests, "rate_limited"
		case errors.Is(err, domain.ErrProfileNotFound):
			status, result = http.StatusNotFound, "profile_missing"
		}
		metrics.SignInsTotal.WithLabelValues(result).Inc()
		return c.JSON(status, errorBody(err, token))
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Session: viewOf(sess)})
}

// SignOut ends the session, demo or live.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/signout [post]
func (h *SessionHandler) SignOut(c echo.Context) error {
	cid, ok := middleware.ClientID(c, h.jwtSecret)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	if err := h.sessions.SignOut(c.Request().Context(), cid); err != nil {
		return err
	}

	metrics.SignOutsTotal.Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "signed out"})
}

// DemoLogin adopts one of the canned demo personas.
//
// @Summary      Sign in as a demo persona
// @Tags         auth
// @Produce      json
// @Param        persona  path      string  true  "collector | creator | investor | admin"
// @Success      200      {object}  sessionResponse
// @Failure      404      {object}  map[string]string
// @Router       /auth/demo/{persona} [post]
func (h *SessionHandler) DemoLogin(c echo.Context) error {
	persona := c.Param("persona")

	sess, token, err := h.sessions.LoginWithDemo(c.Request().Context(), h.clientID(c), persona)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownPersona) {
			return c.JSON(http.StatusNotFound, errorBody(err, token))
		}
		return err
	}

	metrics.DemoLoginsTotal.WithLabelValues(persona).Inc()
	return c.JSON(http.StatusOK, sessionResponse{Token: token, Session: viewOf(sess)})
}

// Session returns the caller's current session snapshot. Unlike the guarded
// routes this always answers 200: pending and unauthenticated are valid
// states the client renders from.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /session [get]
func (h *SessionHandler) Session(c echo.Context) error {
	cid, ok := middleware.ClientID(c, h.jwtSecret)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	sess := h.sessions.Snapshot(c.Request().Context(), cid)
	return c.JSON(http.StatusOK, sessionResponse{Session: viewOf(sess)})
}

// Notices returns the caller's recent notices, oldest first.
//
// @Summary      Recent notices
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  noticesResponse
// @Failure      401  {object}  map[string]string
// @Router       /session/notices [get]
func (h *SessionHandler) Notices(c echo.Context) error {
	cid, ok := middleware.ClientID(c, h.jwtSecret)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	return c.JSON(http.StatusOK, noticesResponse{Notices: h.sessions.Notices(cid)})
}
