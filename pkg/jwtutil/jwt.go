package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/suteetoe/clinicvoice/pkg/config"
)

// RoleAdmin marks the administrative account in token claims.
const RoleAdmin = "admin"

var cfg *config.JWTConfig

// ClinicClaims represents the JWT claims for a clinic session
type ClinicClaims struct {
	ClinicID   uint   `json:"clinic_id"`
	Email      string `json:"email"`
	ClinicName string `json:"clinic_name,omitempty"`
	Role       string `json:"role,omitempty"` // "admin" for the administrative account
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the administrative role.
func (c *ClinicClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Initialize sets the JWT configuration used for signing and validation
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

// GenerateToken creates a signed session token for a clinic account
func GenerateToken(clinicID uint, email, clinicName, role string) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := ClinicClaims{
		ClinicID:   clinicID,
		Email:      email,
		ClinicName: clinicName,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses the session token
func ValidateToken(tokenString string) (*ClinicClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&ClinicClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ClinicClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
