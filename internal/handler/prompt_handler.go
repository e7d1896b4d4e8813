package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/internal/model"
	"github.com/suteetoe/clinicvoice/internal/provision"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/pkg/logger"
	"go.uber.org/zap"
)

// GetDefaultPrompt returns the configured default system prompt, or the
// built-in one when no override has been stored yet.
func (h *Handler) GetDefaultPrompt(c echo.Context) error {
	log := logger.FromEcho(c)

	setting, err := h.store.GetSetting(c.Request().Context(), model.SettingDefaultPrompt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{
				"prompt":    provision.DefaultSystemPrompt,
				"isDefault": true,
			})
		}
		log.Error("Failed to load default prompt setting", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch default prompt"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"prompt":    setting.Value,
		"isDefault": false,
		"updatedAt": setting.UpdatedAt.Format(time.RFC3339),
		"updatedBy": setting.UpdatedBy,
	})
}

// UpdateDefaultPrompt stores a new global default prompt. Only new
// assistants pick it up; existing assistants keep their current prompt.
func (h *Handler) UpdateDefaultPrompt(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request format"})
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prompt is required"})
	}

	setting := &model.Setting{
		Name:      model.SettingDefaultPrompt,
		Value:     prompt,
		UpdatedBy: cl.Email,
	}
	if err := h.store.UpsertSetting(c.Request().Context(), setting); err != nil {
		log.Error("Failed to save default prompt", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save default prompt"})
	}

	log.Info("Default system prompt updated", zap.String("updated_by", cl.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "default prompt updated",
		"prompt":  prompt,
	})
}

// ResetDefaultPrompt restores the built-in default prompt.
func (h *Handler) ResetDefaultPrompt(c echo.Context) error {
	log := logger.FromEcho(c)

	cl, err := claims(c)
	if err != nil {
		return err
	}

	setting := &model.Setting{
		Name:      model.SettingDefaultPrompt,
		Value:     provision.DefaultSystemPrompt,
		UpdatedBy: cl.Email,
	}
	if err := h.store.UpsertSetting(c.Request().Context(), setting); err != nil {
		log.Error("Failed to reset default prompt", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reset default prompt"})
	}

	log.Info("Default system prompt reset", zap.String("updated_by", cl.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "default prompt reset",
		"prompt":  provision.DefaultSystemPrompt,
	})
}

// GetPromptUsage reports how many assistants exist and will be seeded
// by the current default prompt on creation.
func (h *Handler) GetPromptUsage(c echo.Context) error {
	log := logger.FromEcho(c)

	counts, err := h.store.Counts(c.Request().Context())
	if err != nil {
		log.Error("Failed to count assistants", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch prompt usage"})
	}

	isDefault := false
	if _, err := h.store.GetSetting(c.Request().Context(), model.SettingDefaultPrompt); errors.Is(err, store.ErrNotFound) {
		isDefault = true
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalAssistants": counts.Assistants,
		"totalClinics":    counts.Clinics,
		"usingBuiltIn":    isDefault,
	})
}
