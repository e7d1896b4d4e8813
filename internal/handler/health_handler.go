package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/prometheus"
)

// HealthCheck handles the liveness endpoint
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "OK",
		"service":   "clinicvoice",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Metrics serves the Prometheus scrape endpoint
func (h *Handler) Metrics(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
