package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"vyuha/internal/models"
	"vyuha/internal/repositories"

	"github.com/hibiken/asynq"
)

// Dispatcher handles queued push notification tasks: it personalizes the
// message, calls OneSignal and records the outcome.
type Dispatcher struct {
	users     repositories.UserRepository
	logs      repositories.NotificationLogRepository
	onesignal *OneSignalClient
}

func NewDispatcher(
	users repositories.UserRepository,
	logs repositories.NotificationLogRepository,
	onesignal *OneSignalClient,
) *Dispatcher {
	return &Dispatcher{
		users:     users,
		logs:      logs,
		onesignal: onesignal,
	}
}

// HandlePushNotification processes one TypePushNotification task.
func (d *Dispatcher) HandlePushNotification(ctx context.Context, t *asynq.Task) error {
	var payload PushNotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payloads can never succeed; skip retries.
		return fmt.Errorf("failed to unmarshal push payload: %v: %w", err, asynq.SkipRetry)
	}

	title := payload.Title
	message := payload.Message
	if user, err := d.users.GetByID(payload.UserID); err == nil {
		name := user.DisplayName()
		title = strings.ReplaceAll(title, "{name}", name)
		message = strings.ReplaceAll(message, "{name}", name)
	} else {
		log.Printf("push dispatch: user %d not found, sending unpersonalized", payload.UserID)
	}

	status := "sent"
	recipients := 0
	if d.onesignal == nil {
		status = "skipped"
		log.Printf("push dispatch: onesignal not configured, skipping event=%s user=%d", payload.Event, payload.UserID)
	} else {
		var err error
		recipients, err = d.onesignal.Send(ctx, payload.UserID, title, message, payload.URL, payload.Data)
		if err != nil {
			status = "failed"
			log.Printf("push dispatch failed: event=%s user=%d: %v", payload.Event, payload.UserID, err)
		}
	}

	entry := &models.PushNotificationLog{
		Title:       title,
		Message:     message,
		TargetType:  "auto",
		TargetCount: recipients,
		Status:      status,
		Data: models.JSON{
			"event":   payload.Event,
			"user_id": payload.UserID,
			"url":     payload.URL,
		},
	}
	if err := d.logs.Create(entry); err != nil {
		log.Printf("failed to record notification log: %v", err)
	}

	if status == "failed" {
		return fmt.Errorf("push delivery failed for user %d", payload.UserID)
	}
	return nil
}

// NewServer builds the asynq server and mux for the worker binary. The redis
// options must match what the producing client uses.
func NewServer(redis asynq.RedisClientOpt, dispatcher *Dispatcher) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redis,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueNotifications: 10,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePushNotification, dispatcher.HandlePushNotification)
	return srv, mux
}
