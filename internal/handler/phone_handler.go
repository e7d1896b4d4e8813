package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/internal/provision"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/pkg/logger"
	"github.com/suteetoe/clinicvoice/prometheus"
	"go.uber.org/zap"
)

// ProvisionPhone acquires a phone number with area-code fallback
func (h *Handler) ProvisionPhone(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	var req struct {
		AreaCode string `json:"areaCode"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse phone provision request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.AreaCode == "" {
		req.AreaCode = provision.DefaultAreaCode
	}

	result, err := h.svc.AcquirePhone(c.Request().Context(), cl.ClinicID, req.AreaCode)
	if err != nil {
		var noNumber *provision.NoNumberAvailableError
		switch {
		case errors.Is(err, provision.ErrPhoneExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone number already provisioned for this clinic"})
		case errors.Is(err, provision.ErrNoAssistant):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no assistant found, please create an assistant first"})
		case errors.As(err, &noNumber):
			prometheus.RecordProvision("phone", string(provision.OutcomeFailed))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error":              "failed to provision phone number with any area code",
				"attemptedAreaCodes": noNumber.AttemptedAreaCodes(),
				"attempts":           noNumber.Attempts,
			})
		default:
			prometheus.RecordProvision("phone", string(provision.OutcomeFailed))
			return vapiError(c, log, "phone_provision", err, "failed to provision phone number")
		}
	}

	prometheus.RecordProvision("phone", string(result.Outcome))
	if result.WasFallback {
		prometheus.PhoneFallbackCounter.Inc()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Phone number provisioned successfully",
		"phone":   result.Phone,
		"outcome": result.Outcome,
		"fallbackInfo": map[string]interface{}{
			"requestedAreaCode":  result.RequestedAreaCode,
			"successfulAreaCode": result.SuccessfulAreaCode,
			"wasFallback":        result.WasFallback,
		},
	})
}

// GetPhoneInfo returns the clinic's phone reference, or null
func (h *Handler) GetPhoneInfo(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	phone, err := h.store.GetPhoneByClinic(c.Request().Context(), cl.ClinicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"phone": nil})
		}
		log.Error("Failed to get phone", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get phone info"})
	}

	return c.JSON(http.StatusOK, echo.Map{"phone": phone})
}

// DeletePhone releases the clinic's phone number
func (h *Handler) DeletePhone(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	if err := h.svc.ReleasePhone(c.Request().Context(), cl.ClinicID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no phone number found for this clinic"})
		}
		log.Error("Failed to delete phone", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete phone number"})
	}

	log.Info("Phone number deleted", zap.Uint("clinic_id", cl.ClinicID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Phone number deleted successfully"})
}
