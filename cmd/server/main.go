// Package main is the entry point for the API server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"vyuha/internal/config"
	"vyuha/internal/repositories"
	"vyuha/internal/routes"
	"vyuha/internal/services/notification"
	"vyuha/internal/services/settings"
	"vyuha/internal/services/settlement"
	"vyuha/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize databases (PostgreSQL + Redis) and migrate the schema
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	maxIdleConns, _ := strconv.Atoi(config.GetEnv("DB_MAX_IDLE_CONNS", "10"))
	maxOpenConns, _ := strconv.Atoi(config.GetEnv("DB_MAX_OPEN_CONNS", "100"))
	connMaxLifetime, _ := time.ParseDuration(config.GetEnv("DB_CONN_MAX_LIFETIME", "1h"))
	connMaxIdleTime, _ := time.ParseDuration(config.GetEnv("DB_CONN_MAX_IDLE_TIME", "30m"))

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	// Notification queue client. The worker binary consumes these tasks.
	redisAddr := config.GetEnv("REDIS_HOST", "localhost") + ":" + config.GetEnv("REDIS_PORT", "6379")
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	defer asynqClient.Close()

	notifier := notification.NewService(asynqClient)

	// Deposit screenshot storage. The API still runs without it; uploads
	// return an error until R2 is configured.
	var uploader storage.FileUploader
	uploader, err = storage.NewR2Uploader(storage.R2Config{
		AccountID:       config.GetEnv("R2_ACCOUNT_ID", ""),
		AccessKeyID:     config.GetEnv("R2_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetEnv("R2_SECRET_ACCESS_KEY", ""),
		BucketName:      config.GetEnv("R2_BUCKET", ""),
		PublicBaseURL:   config.GetEnv("R2_PUBLIC_BASE_URL", ""),
	})
	if err != nil {
		log.Printf("File storage disabled: %v", err)
		uploader = nil
	}

	// Pre-start prize pool recalculation sweep
	settlementRepo := repositories.NewSettlementRepository(repositories.DB, repositories.CacheService)
	settingsRepo := repositories.NewSettingsRepository(repositories.DB, repositories.CacheService)
	settingsService := settings.NewService(settingsRepo, repositories.CacheService)
	settlementService := settlement.NewService(settlementRepo, settingsService, notifier)
	recalculator := settlement.NewRecalculator(settlementService, settlementRepo)
	if err := recalculator.Start(); err != nil {
		log.Fatalf("Failed to start recalculation sweep: %v", err)
	}
	defer recalculator.Stop()

	// Create Fiber app
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	// Routes
	routes.SetupRoutes(app, repositories.DB, notifier, uploader)

	// Start server and wait for a shutdown signal
	go func() {
		if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	if err := app.Shutdown(); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
