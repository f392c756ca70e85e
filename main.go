package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Whypen/Pet-Huddle-sub002/api"
	"github.com/Whypen/Pet-Huddle-sub002/config"
	"github.com/Whypen/Pet-Huddle-sub002/database"
	"github.com/Whypen/Pet-Huddle-sub002/middleware"
	"github.com/Whypen/Pet-Huddle-sub002/models"
	"github.com/Whypen/Pet-Huddle-sub002/repository"
	"github.com/Whypen/Pet-Huddle-sub002/services"

	"gorm.io/gorm"
)

func main() {
	// Load .env if present, then the application configuration.
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: [Main] No .env file found, relying on environment and config.yaml.")
	}
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Initialize Repositories
	quotaRepo := repository.NewQuotaRepository(db)
	scanRepo := repository.NewScanRepository(db)
	triageRepo := repository.NewTriageRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize the provider client once; services receive it injected.
	modelClient := services.NewModelClient(config.AppConfig.Provider.APIKey, config.AppConfig.Provider.BaseURL)
	classifier := services.NewClassifier(modelClient, config.AppConfig.Provider.ClassifierModel)

	// Initialize Services
	vetService := services.NewVetService(
		profileRepo, usageRepo, quotaRepo, conversationRepo,
		modelClient, config.AppConfig.Provider, config.AppConfig.Quotas,
	)
	hazardService := services.NewHazardService(scanRepo, triageRepo, classifier, config.AppConfig.Quotas)
	discoveryService := services.NewDiscoveryService(profileRepo, quotaRepo, config.AppConfig.Quotas)
	gateService := services.NewGateService()
	log.Println("INFO: [Main] Services initialized.")

	// Start the scan log sweeper so the rate-limit log does not grow forever.
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sweeper := services.NewScanLogSweeper(
		scanRepo,
		time.Duration(config.AppConfig.Quotas.ScanWindowHours)*time.Hour,
		time.Hour,
	)
	go sweeper.Run(sweeperCtx)

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(vetService, hazardService, discoveryService, gateService, profileRepo)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.QuotaCounter{},
		&models.ScanEntry{},
		&models.TriageCacheEntry{},
		&models.Conversation{},
		&models.Profile{},
		&models.VetUsage{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	// API route group
	apiGroup := r.Group("/api")
	{
		// AI vet endpoints
		vetGroup := apiGroup.Group("/ai-vet")
		{
			vetGroup.POST("/chat", handler.ChatHandler)
			vetGroup.GET("/usage", handler.UsageHandler)
			vetGroup.POST("/conversations", handler.CreateConversationHandler)
			vetGroup.GET("/conversations", handler.ListConversationsHandler)
		}

		// Hazard scan endpoint
		apiGroup.POST("/hazard-scan", handler.HazardScanHandler)

		// Social discovery gating
		apiGroup.GET("/discovery/profile-check", handler.ProfileCheckHandler)

		// Profile administration
		apiGroup.POST("/profiles", handler.UpsertProfileHandler)
		apiGroup.GET("/profiles/:userID", handler.GetProfileHandler)
	}
}
