package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/internal/model"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/pkg/logger"
	"github.com/suteetoe/clinicvoice/prometheus"
	"go.uber.org/zap"
)

// ListClinics returns every clinic with assistant/phone summary, newest first
func (h *Handler) ListClinics(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	clinics, err := h.store.ListClinics(ctx)
	if err != nil {
		log.Error("Failed to list clinics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch clinics"})
	}

	assistants, err := h.store.ListAssistants(ctx)
	if err != nil {
		log.Error("Failed to list assistants", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch clinics"})
	}
	phones, err := h.store.ListPhoneNumbers(ctx)
	if err != nil {
		log.Error("Failed to list phone numbers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch clinics"})
	}

	// Lookup maps keyed by clinic
	assistantsByClinic := make(map[uint]model.Assistant, len(assistants))
	for _, a := range assistants {
		assistantsByClinic[a.ClinicID] = a
	}
	phonesByClinic := make(map[uint]model.PhoneNumber, len(phones))
	for _, p := range phones {
		phonesByClinic[p.ClinicID] = p
	}

	type phoneInfo struct {
		PhoneNumber string    `json:"phone_number"`
		AreaCode    string    `json:"area_code"`
		CreatedAt   time.Time `json:"created_at"`
	}
	type clinicSummary struct {
		ID           uint       `json:"id"`
		ClinicName   string     `json:"clinic_name"`
		Email        string     `json:"email"`
		CreatedAt    time.Time  `json:"created_at"`
		HasAssistant bool       `json:"hasAssistant"`
		PhoneInfo    *phoneInfo `json:"phoneInfo"`
	}

	summaries := make([]clinicSummary, 0, len(clinics))
	for _, clinic := range clinics {
		_, hasAssistant := assistantsByClinic[clinic.ID]
		var info *phoneInfo
		if phone, ok := phonesByClinic[clinic.ID]; ok {
			info = &phoneInfo{
				PhoneNumber: phone.PhoneNumber,
				AreaCode:    phone.AreaCode,
				CreatedAt:   phone.CreatedAt,
			}
		}
		summaries = append(summaries, clinicSummary{
			ID:           clinic.ID,
			ClinicName:   clinic.ClinicName,
			Email:        clinic.Email,
			CreatedAt:    clinic.CreatedAt,
			HasAssistant: hasAssistant,
			PhoneInfo:    info,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"clinics": summaries})
}

// GetClinicDetails returns one clinic with its references and recent cached calls
func (h *Handler) GetClinicDetails(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid clinic id"})
	}
	clinicID := uint(id)

	clinic, err := h.store.GetClinic(ctx, clinicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "clinic not found"})
		}
		log.Error("Failed to get clinic", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch clinic details"})
	}

	var assistant *model.Assistant
	if a, err := h.store.GetAssistantByClinic(ctx, clinicID); err == nil {
		assistant = a
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("Failed to get assistant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch clinic details"})
	}

	var phone *model.PhoneNumber
	if p, err := h.store.GetPhoneByClinic(ctx, clinicID); err == nil {
		phone = p
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("Failed to get phone", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch clinic details"})
	}

	recentCalls, err := h.store.ListRecentCallRecords(ctx, clinicID, 10)
	if err != nil {
		log.Error("Failed to list recent calls", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch clinic details"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"clinic":      clinic,
		"assistant":   assistant,
		"phone":       phone,
		"recentCalls": recentCalls,
	})
}

// DeleteClinic removes a clinic and all of its local references. External
// resources are released best-effort first; failures are reported as
// orphans rather than blocking the local cascade.
func (h *Handler) DeleteClinic(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid clinic id"})
	}

	result, err := h.svc.TeardownClinic(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "clinic not found"})
		}
		log.Error("Failed to delete clinic", zap.Uint64("clinic_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete clinic"})
	}

	prometheus.ClinicDeletionCounter.Inc()
	prometheus.ActiveClinicsGauge.Dec()
	log.Info("Clinic deleted", zap.Uint64("clinic_id", id), zap.Int("orphans", len(result.Orphans)))

	resp := echo.Map{
		"message": "Clinic and all related data deleted successfully",
		"outcome": result.Outcome,
	}
	if len(result.Orphans) > 0 {
		resp["orphanedResources"] = result.Orphans
	}
	return c.JSON(http.StatusOK, resp)
}

// GetStats returns system-wide totals
func (h *Handler) GetStats(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	counts, err := h.store.Counts(ctx)
	if err != nil {
		log.Error("Failed to count records", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch statistics"})
	}

	recentCalls, err := h.store.CountCallRecordsSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		log.Error("Failed to count recent calls", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch statistics"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalClinics":    counts.Clinics,
		"totalAssistants": counts.Assistants,
		"totalPhones":     counts.Phones,
		"totalCalls":      counts.Calls,
		"recentCalls":     recentCalls,
	})
}
