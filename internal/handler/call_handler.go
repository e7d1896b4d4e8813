package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/pkg/logger"
)

// GetCallLogs returns the clinic's normalized call history, fetched live
func (h *Handler) GetCallLogs(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	calls, err := h.svc.CallLogs(c.Request().Context(), cl.ClinicID)
	if err != nil {
		return vapiError(c, log, "call_list", err, "failed to get call logs")
	}

	return c.JSON(http.StatusOK, echo.Map{"calls": calls})
}
