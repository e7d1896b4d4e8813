package main

import (
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/suteetoe/clinicvoice/internal/model"
	"github.com/suteetoe/clinicvoice/pkg/config"
	"github.com/suteetoe/clinicvoice/pkg/database"
	"github.com/suteetoe/clinicvoice/pkg/jwtutil"
	"github.com/suteetoe/clinicvoice/pkg/logger"
)

// Bootstraps the admin account from ADMIN_EMAIL / ADMIN_PASSWORD.
// Safe to run repeatedly: an existing admin account is left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	if len(password) < 8 {
		log.Fatal("ADMIN_PASSWORD must be at least 8 characters")
	}

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()

	var existing model.Clinic
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		if existing.Role == jwtutil.RoleAdmin {
			log.Info("Admin account already exists", zap.String("email", email))
			return
		}
		log.Fatal("An account with this email already exists and is not an admin", zap.String("email", email))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password", zap.Error(err))
	}

	admin := model.Clinic{
		Email:      email,
		Password:   string(hashed),
		ClinicName: "Administrator",
		Role:       jwtutil.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin account", zap.Error(err))
	}

	log.Info("Admin account created", zap.String("email", email), zap.Uint("id", admin.ID))
}
