package handler

import (
	"net/http"

	"timetrack-service/prometheus"

	"github.com/labstack/echo/v4"
)

// Root handles the API root endpoint
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "TimeTrack API",
		"status":  "running",
		"version": "1.2.0",
	})
}

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "timetrack-service",
	})
}

// MetricsHandler exposes the Prometheus metrics endpoint
func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
