package http

import (
	"menu-portal/internal/menu/config"
	"menu-portal/internal/menu/usecase"
	"menu-portal/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// StoreDiagnostics exposes what the health route reports about the store credentials
type StoreDiagnostics interface {
	IsConfigured() bool
	Credentials() config.RedisCredentials
}

// HTTPHandler serves the menu collection REST endpoints
type HTTPHandler struct {
	MenuUC      usecase.MenuUsecaseInterface
	Diagnostics StoreDiagnostics
	Environment string
	Log         logger.Logger
}

// NewMenuHTTPHandler creates a new HTTPHandler
func NewMenuHTTPHandler(
	menuUC usecase.MenuUsecaseInterface,
	diagnostics StoreDiagnostics,
	environment string,
	log logger.Logger,
) *HTTPHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &HTTPHandler{
		MenuUC:      menuUC,
		Diagnostics: diagnostics,
		Environment: environment,
		Log:         log.WithComponent("menu_http"),
	}
}

// RegisterRoutes mounts the menu endpoints on router, typically the /api group
func (h *HTTPHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/menu-items", h.GetMenuItems)
	router.Post("/menu-items", h.SaveMenuItems)

	if h.Diagnostics != nil {
		router.Get("/health", h.Health)
	}
}
