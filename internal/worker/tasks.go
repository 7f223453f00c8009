// Package worker holds the asynq task definitions and the background server
// that drains them. Producers enqueue through the notification service; the
// worker binary runs the server.
package worker

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypePushNotification delivers one push notification to one user.
	TypePushNotification = "notification:push"

	// QueueNotifications is the queue notification tasks land on.
	QueueNotifications = "notifications"
)

// PushNotificationPayload carries everything the dispatch handler needs so it
// can run without re-reading the originating event.
type PushNotificationPayload struct {
	Event   string            `json:"event"`
	UserID  uint              `json:"user_id"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	URL     string            `json:"url,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}

// NewPushNotificationTask builds the asynq task for a push payload.
func NewPushNotificationTask(payload PushNotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push payload: %w", err)
	}
	return asynq.NewTask(TypePushNotification, data,
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(3),
	), nil
}
