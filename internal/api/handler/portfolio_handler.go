package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

// PortfolioHandler serves the authenticated portfolio view.
type PortfolioHandler struct{}

func NewPortfolioHandler() *PortfolioHandler {
	return &PortfolioHandler{}
}

type portfolioResponse struct {
	Owner   *domain.Principal `json:"owner"`
	Role    domain.Role       `json:"role"`
	Wallet  string            `json:"wallet,omitempty"`
	IsDemo  bool              `json:"is_demo"`
	Message string            `json:"message,omitempty"`
}

// Portfolio returns the portfolio summary for the current principal.
//
// @Summary      Portfolio summary
// @Tags         portfolio
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  portfolioResponse
// @Failure      401  {object}  map[string]string
// @Router       /portfolio [get]
func (h *PortfolioHandler) Portfolio(c echo.Context) error {
	p, role, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	resp := portfolioResponse{
		Owner:  p,
		Role:   role,
		Wallet: p.WalletAddress,
		IsDemo: p.IsDemo,
	}
	if p.IsDemo {
		resp.Message = "demo portfolio — holdings are sample data"
	}
	return c.JSON(http.StatusOK, resp)
}

// StudioStatus reports creator capabilities; reachable only behind the
// creator/admin role guard.
//
// @Summary      Creator studio status
// @Tags         studio
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /studio/status [get]
func (h *PortfolioHandler) StudioStatus(c echo.Context) error {
	p, role, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"creator":  p.Name,
		"role":     role,
		"can_mint": true,
	})
}
