// Package notification turns settlement events into queued push notifications.
// Delivery is fire-and-forget: a failed enqueue is logged, never surfaced to
// the money movement that triggered it.
package notification

import (
	"context"
	"fmt"
	"log"
	"strings"

	"vyuha/internal/worker"

	"github.com/hibiken/asynq"
)

// Event types the platform emits.
const (
	EventDepositApproved     = "deposit_approved"
	EventWithdrawalApproved  = "withdrawal_approved"
	EventWithdrawalRejected  = "withdrawal_rejected"
	EventTournamentJoined    = "tournament_joined"
	EventTournamentWon       = "tournament_won"
	EventTournamentCancelled = "tournament_cancelled"
	EventBanLifted           = "ban_lifted"
	EventProfileUpdated      = "profile_updated"
	EventDhanaEarned         = "dhana_earned"
	EventMatchStarting       = "match_starting"
	EventBonusReceived       = "bonus_received"
)

type template struct {
	Title   string
	Message string
	URL     string
}

// templates maps an event type to its notification copy. Placeholders of the
// form {key} are filled from the event data.
var templates = map[string]template{
	EventDepositApproved: {
		Title:   "Deposit Approved",
		Message: "Your deposit of ₹{amount} has been approved and added to your wallet.",
		URL:     "/wallet",
	},
	EventWithdrawalApproved: {
		Title:   "Withdrawal Approved",
		Message: "Your withdrawal of ₹{amount} has been processed.",
		URL:     "/wallet",
	},
	EventWithdrawalRejected: {
		Title:   "Withdrawal Rejected",
		Message: "Your withdrawal request of ₹{amount} was rejected. The amount remains in your wallet.",
		URL:     "/wallet",
	},
	EventTournamentJoined: {
		Title:   "Tournament Joined",
		Message: "You have joined {tournament}. Good luck!",
		URL:     "/tournaments/{tournament_id}",
	},
	EventTournamentWon: {
		Title:   "You Won!",
		Message: "Congratulations! You won {tournament} and ₹{amount} has been added to your wallet.",
		URL:     "/tournaments/{tournament_id}",
	},
	EventTournamentCancelled: {
		Title:   "Tournament Cancelled",
		Message: "{tournament} was cancelled. Your entry fee of ₹{amount} has been refunded.",
		URL:     "/wallet",
	},
	EventBanLifted: {
		Title:   "Account Restored",
		Message: "Your account ban has been lifted. Welcome back!",
		URL:     "/",
	},
	EventProfileUpdated: {
		Title:   "Profile Updated",
		Message: "Your profile details were updated.",
		URL:     "/profile",
	},
	EventDhanaEarned: {
		Title:   "Dhana Earned",
		Message: "You earned {amount} dhana points.",
		URL:     "/profile",
	},
	EventMatchStarting: {
		Title:   "Match Starting Soon",
		Message: "{tournament} starts in a few minutes. Get ready!",
		URL:     "/tournaments/{tournament_id}",
	},
	EventBonusReceived: {
		Title:   "Bonus Received",
		Message: "A bonus of ₹{amount} has been added to your wallet.",
		URL:     "/wallet",
	},
}

// Service dispatches notification events to the background queue.
type Service interface {
	// Notify enqueues a push notification for the given event. It never
	// returns delivery errors; an unknown event type is the only failure.
	Notify(ctx context.Context, eventType string, userID uint, data map[string]string) error
}

type service struct {
	client *asynq.Client
}

// NewService wraps an asynq client. A nil client degrades to log-only mode,
// used in tests and local runs without Redis.
func NewService(client *asynq.Client) Service {
	return &service{client: client}
}

func (s *service) Notify(ctx context.Context, eventType string, userID uint, data map[string]string) error {
	tmpl, ok := templates[eventType]
	if !ok {
		return fmt.Errorf("unknown notification event: %s", eventType)
	}

	payload := worker.PushNotificationPayload{
		Event:   eventType,
		UserID:  userID,
		Title:   fill(tmpl.Title, data),
		Message: fill(tmpl.Message, data),
		URL:     fill(tmpl.URL, data),
		Data:    data,
	}

	if s.client == nil {
		log.Printf("notification (no queue): user=%d event=%s title=%q", userID, eventType, payload.Title)
		return nil
	}

	task, err := worker.NewPushNotificationTask(payload)
	if err != nil {
		log.Printf("failed to build notification task for user %d: %v", userID, err)
		return nil
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		log.Printf("failed to enqueue %s notification for user %d: %v", eventType, userID, err)
	}
	return nil
}

func fill(tmpl string, data map[string]string) string {
	out := tmpl
	for key, value := range data {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}
