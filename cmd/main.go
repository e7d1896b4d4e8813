package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/suteetoe/clinicvoice/internal/handler"
	"github.com/suteetoe/clinicvoice/internal/middleware"
	"github.com/suteetoe/clinicvoice/internal/provision"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/internal/vapi"
	"github.com/suteetoe/clinicvoice/pkg/config"
	"github.com/suteetoe/clinicvoice/pkg/database"
	"github.com/suteetoe/clinicvoice/pkg/jwtutil"
	"github.com/suteetoe/clinicvoice/pkg/logger"
	"github.com/suteetoe/clinicvoice/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting clinic voice service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Wire the storage, voice platform client and provisioning workflows
	st := store.NewGormStore(database.GetDB())
	client := vapi.NewHTTPClient(cfg.Vapi.BaseURL, cfg.Vapi.APIKey, cfg.Vapi.Timeout)
	svc := provision.NewService(st, client, log)
	h := handler.New(st, svc, client, cfg)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", h.Metrics)

	// Authentication routes - these don't belong under /api since they're for getting access to the API
	auth := e.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Assistant lifecycle
	assistant := api.Group("/assistant")
	assistant.POST("/create", h.CreateAssistant)
	assistant.GET("/info", h.GetAssistantInfo)
	assistant.GET("/prompt", h.GetPrompt)
	assistant.PUT("/prompt", h.UpdatePrompt)

	// Phone number provisioning
	phone := api.Group("/phone")
	phone.POST("/provision", h.ProvisionPhone)
	phone.GET("/info", h.GetPhoneInfo)
	phone.DELETE("", h.DeletePhone)

	// Knowledge base files
	knowledge := api.Group("/knowledge")
	knowledge.POST("/upload", h.UploadKnowledgeFile)
	knowledge.GET("/files", h.ListKnowledgeFiles)
	knowledge.DELETE("/files/:fileId", h.DeleteKnowledgeFile)

	// Call history
	api.GET("/calls/logs", h.GetCallLogs)

	// Admin routes - require the admin role on top of authentication
	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware)
	admin.GET("/clinics", h.ListClinics)
	admin.GET("/clinics/:id", h.GetClinicDetails)
	admin.DELETE("/clinics/:id", h.DeleteClinic)
	admin.GET("/stats", h.GetStats)
	admin.GET("/system-prompt/default", h.GetDefaultPrompt)
	admin.PUT("/system-prompt/default", h.UpdateDefaultPrompt)
	admin.POST("/system-prompt/default/reset", h.ResetDefaultPrompt)
	admin.GET("/system-prompt/usage", h.GetPromptUsage)

	// Serve the dashboard SPA for any path the API doesn't claim
	e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
		Root:   cfg.Server.StaticDir,
		Index:  "index.html",
		HTML5:  true,
		Browse: false,
	}))

	// Start server
	log.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
