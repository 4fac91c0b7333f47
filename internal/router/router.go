package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"faturadash/internal/handler"
	"faturadash/internal/handler/api"
	"faturadash/internal/middleware"
	"faturadash/internal/storage"
	"faturadash/internal/webhook"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	repos *api.Repos,
	wh *webhook.Client,
	store *storage.Client,
	keyDeduper middleware.KeyDeduper,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Handlers
	dispatchHandler := api.NewDispatchHandler(repos, wh, logger)
	pdfHandler := api.NewPdfHandler(repos, logger)
	userHandler := api.NewUserHandler(repos, logger)
	proxyHandler := handler.NewPdfProxyHandler(repos.Pdf, store, logger)

	apiGroup := e.Group("/api")

	// Invoice requests and dispatch scheduling
	apiGroup.POST("/invoices/request", dispatchHandler.RequestInvoice)
	apiGroup.POST("/dispatches", dispatchHandler.Schedule, middleware.IdempotencyKey(keyDeduper))
	apiGroup.GET("/dispatches", dispatchHandler.ListScheduled)
	apiGroup.DELETE("/dispatches/:id", dispatchHandler.DeleteScheduled)
	apiGroup.PATCH("/dispatches/:id/toggle", dispatchHandler.ToggleScheduled)

	// PDF catalog
	apiGroup.GET("/pdfs", pdfHandler.List)
	apiGroup.DELETE("/pdfs/:id", pdfHandler.Delete)
	apiGroup.GET("/pdfs/:id/url", pdfHandler.GetURL)

	// Same-origin download proxy
	apiGroup.GET("/pdf/:id", proxyHandler.Download)

	// Dashboard sign-in mirror
	apiGroup.POST("/users/session", userHandler.UpsertSession)
	apiGroup.GET("/users/:openId", userHandler.GetSession)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
