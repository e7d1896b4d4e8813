package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/internal/model"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/pkg/jwtutil"
	"github.com/suteetoe/clinicvoice/pkg/logger"
	"github.com/suteetoe/clinicvoice/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register handles clinic registration
func (h *Handler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	// Parse request
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		ClinicName string `json:"clinic_name"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" || req.ClinicName == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password, and clinic name are required"})
	}

	if len(req.Password) < 8 {
		prometheus.RecordAuthError("weak_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	// Check if clinic already exists - track DB query
	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.store.GetClinicByEmail(c.Request().Context(), req.Email); err == nil {
		log.Error("Clinic already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "clinic with this email already exists"})
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("Failed to check existing clinic", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	// Create new clinic
	clinic := model.Clinic{
		Email:      req.Email,
		Password:   string(hashedPassword),
		ClinicName: req.ClinicName,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateClinic(c.Request().Context(), &clinic); err != nil {
		log.Error("Failed to create clinic", zap.Error(err))
		prometheus.RecordAuthError("clinic_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	token, err := jwtutil.GenerateToken(clinic.ID, clinic.Email, clinic.ClinicName, clinic.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Clinic registered", zap.String("email", clinic.Email), zap.Uint("clinic_id", clinic.ID))
	prometheus.ActiveClinicsGauge.Inc()

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Clinic registered successfully",
		"token":   token,
		"clinic": map[string]interface{}{
			"id":          clinic.ID,
			"email":       clinic.Email,
			"clinic_name": clinic.ClinicName,
		},
	})
}

// Login handles clinic login
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	// Find clinic in database - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	clinic, err := h.store.GetClinicByEmail(c.Request().Context(), req.Email)
	if err != nil {
		log.Error("Clinic not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("clinic_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(clinic.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(clinic.ID, clinic.Email, clinic.ClinicName, clinic.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Clinic logged in", zap.String("email", clinic.Email), zap.Uint("clinic_id", clinic.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
		"clinic": map[string]interface{}{
			"id":          clinic.ID,
			"email":       clinic.Email,
			"clinic_name": clinic.ClinicName,
		},
	})
}
