package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/R3almCollectibles/session-gateway/docs"
	"github.com/R3almCollectibles/session-gateway/internal/api/handler"
	"github.com/R3almCollectibles/session-gateway/internal/api/middleware"
	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(sessions ports.SessionService, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("r3alm_session"))

	// --- Dependencies ---
	sessionHandler := handler.NewSessionHandler(sessions, jwtSecret)
	portfolioHandler := handler.NewPortfolioHandler()
	adminHandler := handler.NewAdminHandler(sessions)
	requireAuth := middleware.RequireAuth(jwtSecret, sessions)

	// --- Auth routes (no guard: these create or end sessions) ---
	e.POST("/auth/signup", sessionHandler.SignUp)
	e.POST("/auth/signin", sessionHandler.SignIn)
	e.POST("/auth/signout", sessionHandler.SignOut)
	e.POST("/auth/demo/:persona", sessionHandler.DemoLogin)

	// --- Session reads (token required, any state admitted) ---
	e.GET("/session", sessionHandler.Session)
	e.GET("/session/notices", sessionHandler.Notices)

	// --- Guarded views ---
	e.GET("/portfolio", portfolioHandler.Portfolio, requireAuth)

	studio := e.Group("/studio", requireAuth, middleware.RequireRole(domain.RoleCreator, domain.RoleAdmin))
	studio.GET("/status", portfolioHandler.StudioStatus)

	admin := e.Group("/admin", requireAuth, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/sessions", adminHandler.Sessions)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
