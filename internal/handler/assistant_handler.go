package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/internal/provision"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/internal/vapi"
	"github.com/suteetoe/clinicvoice/pkg/logger"
	"github.com/suteetoe/clinicvoice/prometheus"
	"go.uber.org/zap"
)

// CreateAssistant provisions the hosted assistant for the calling clinic
func (h *Handler) CreateAssistant(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	result, err := h.svc.CreateAssistant(c.Request().Context(), cl.ClinicID)
	if err != nil {
		switch {
		case errors.Is(err, provision.ErrAssistantExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "assistant already exists for this clinic"})
		default:
			prometheus.RecordProvision("assistant", string(provision.OutcomeFailed))
			return vapiError(c, log, "assistant_create", err, "failed to create assistant")
		}
	}

	prometheus.RecordProvision("assistant", string(result.Outcome))
	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Assistant created successfully",
		"assistant": result.Assistant,
		"outcome":   result.Outcome,
	})
}

// GetAssistantInfo returns the clinic's assistant reference, or null
func (h *Handler) GetAssistantInfo(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	assistant, err := h.store.GetAssistantByClinic(c.Request().Context(), cl.ClinicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"assistant": nil})
		}
		log.Error("Failed to get assistant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get assistant info"})
	}

	return c.JSON(http.StatusOK, echo.Map{"assistant": assistant})
}

// GetPrompt fetches the assistant's current system prompt live from the platform
func (h *Handler) GetPrompt(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	assistant, err := h.store.GetAssistantByClinic(c.Request().Context(), cl.ClinicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no assistant found for this clinic"})
		}
		log.Error("Failed to get assistant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get system prompt"})
	}

	remote, err := h.client.GetAssistant(c.Request().Context(), assistant.VapiAssistantID)
	if err != nil {
		if errors.Is(err, vapi.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assistant not found"})
		}
		return vapiError(c, log, "assistant_get", err, "failed to get system prompt")
	}

	return c.JSON(http.StatusOK, echo.Map{"prompt": remote.Model.SystemPrompt})
}

// UpdatePrompt pushes a new system prompt to the platform
func (h *Handler) UpdatePrompt(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse prompt update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prompt is required"})
	}

	assistant, err := h.store.GetAssistantByClinic(c.Request().Context(), cl.ClinicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no assistant found for this clinic"})
		}
		log.Error("Failed to get assistant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update system prompt"})
	}

	if err := h.client.UpdateAssistantPrompt(c.Request().Context(), assistant.VapiAssistantID, req.Prompt); err != nil {
		return vapiError(c, log, "assistant_update_prompt", err, "failed to update system prompt")
	}

	log.Info("System prompt updated", zap.Uint("clinic_id", cl.ClinicID))
	return c.JSON(http.StatusOK, echo.Map{"message": "System prompt updated successfully"})
}
