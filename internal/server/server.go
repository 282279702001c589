// Package server wires the echo instance: middleware, route table and
// handlers. The database handle is a constructed dependency so the same
// wiring serves cmd/main.go and the tests.
package server

import (
	"timetrack-service/internal/handler"
	"timetrack-service/internal/middleware"
	"timetrack-service/pkg/config"
	"timetrack-service/pkg/logger"
	"timetrack-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New builds the fully wired echo server.
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
	}))
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	authHandler := handler.NewAuthHandler(db)
	companyHandler := handler.NewCompanyHandler(db)
	projectHandler := handler.NewProjectHandler(db)
	activityHandler := handler.NewActivityHandler(db)
	entryHandler := handler.NewTimeEntryHandler(db)
	statsHandler := handler.NewStatsHandler(db)

	api := e.Group("/api")

	// Public routes - no authentication required
	api.GET("/", handler.Root)
	api.GET("/health", handler.HealthCheck)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Everything below requires a resolved session
	authed := api.Group("", middleware.Auth(db))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/logout", authHandler.Logout)

	companies := authed.Group("/companies")
	companies.POST("", companyHandler.Create)
	companies.GET("/current", companyHandler.Current)

	// Tenant-scoped resources - caller must belong to a company
	projects := authed.Group("/projects")
	projects.Use(middleware.RequireCompany)
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)

	activities := authed.Group("/activities")
	activities.Use(middleware.RequireCompany)
	activities.POST("", activityHandler.Create)
	activities.GET("", activityHandler.List)
	activities.DELETE("/:id", activityHandler.Delete)

	entries := authed.Group("/time-entries")
	entries.Use(middleware.RequireCompany)
	entries.POST("", entryHandler.Create)
	entries.GET("", entryHandler.List)
	entries.GET("/:id", entryHandler.Get)
	entries.PUT("/:id", entryHandler.Update)
	entries.DELETE("/:id", entryHandler.Delete)

	stats := authed.Group("/stats")
	stats.Use(middleware.RequireCompany)
	stats.GET("/today", statsHandler.Today)
	stats.GET("/week", statsHandler.Week)
	stats.GET("/by-project", statsHandler.ByProject)

	return e
}
