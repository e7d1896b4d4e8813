package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/clinicvoice/pkg/jwtutil"
	"github.com/suteetoe/clinicvoice/pkg/logger"
	"github.com/suteetoe/clinicvoice/prometheus"
	"go.uber.org/zap"
)

// ClaimsKey is the echo context key holding the validated session claims.
const ClaimsKey = "clinic_claims"

// AuthMiddleware validates the JWT token from the Authorization header
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store claims in context for later use
		c.Set(ClaimsKey, claims)

		return next(c)
	}
}

// AdminMiddleware requires a validated token carrying the administrative
// role. It must run after AuthMiddleware.
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		claims, ok := c.Get(ClaimsKey).(*jwtutil.ClinicClaims)
		if !ok {
			log.Error("Missing claims in admin request")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		if !claims.IsAdmin() {
			log.Warn("Non-admin access attempt to admin endpoint",
				zap.Uint("clinic_id", claims.ClinicID),
				zap.String("email", claims.Email))
			prometheus.RecordAuthError("admin_required")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
		}

		return next(c)
	}
}

// ClaimsFromEcho retrieves the validated session claims from the context.
func ClaimsFromEcho(c echo.Context) (*jwtutil.ClinicClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*jwtutil.ClinicClaims)
	return claims, ok
}
