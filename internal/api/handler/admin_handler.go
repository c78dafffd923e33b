package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

// AdminHandler serves the back-office views; all routes sit behind the
// admin role guard.
type AdminHandler struct {
	sessions ports.SessionService
}

func NewAdminHandler(sessions ports.SessionService) *AdminHandler {
	return &AdminHandler{sessions: sessions}
}

// Sessions lists every live client session.
//
// @Summary      List active sessions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.SessionInfo
// @Failure      403  {object}  map[string]string
// @Router       /admin/sessions [get]
func (h *AdminHandler) Sessions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.ActiveSessions())
}
