// Package main runs the background worker that delivers queued push
// notifications through OneSignal.
package main

import (
	"log"

	"vyuha/internal/config"
	"vyuha/internal/repositories"
	"vyuha/internal/worker"

	"github.com/hibiken/asynq"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	logRepo := repositories.NewNotificationLogRepository(repositories.DB)

	onesignal := worker.NewOneSignalClient(
		config.GetEnv("ONESIGNAL_APP_ID", ""),
		config.GetEnv("ONESIGNAL_REST_API_KEY", ""),
	)
	if onesignal == nil {
		log.Println("OneSignal not configured; notifications will be logged only")
	}

	dispatcher := worker.NewDispatcher(userRepo, logRepo, onesignal)

	srv, mux := worker.NewServer(asynq.RedisClientOpt{
		Addr:     config.GetEnv("REDIS_HOST", "localhost") + ":" + config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}, dispatcher)

	log.Println("Worker started")
	if err := srv.Run(mux); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
