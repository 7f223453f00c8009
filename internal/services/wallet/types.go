package wallet

import (
	"time"

	"vyuha/internal/services/earnings"
)

// Milestones maps dhana point thresholds to bonus amounts in rupees.
var Milestones = map[int]float64{
	50:   10,
	100:  25,
	500:  100,
	1000: 500,
}

// Balance is the wallet summary returned to clients.
type Balance struct {
	UserID       uint    `json:"user_id"`
	Total        float64 `json:"balance"`
	Withdrawable float64 `json:"withdrawable"`
}

// Withdrawable is the earnings view with its per-tournament breakdown.
type Withdrawable struct {
	Total     float64                   `json:"total"`
	Breakdown []earnings.BreakdownEntry `json:"breakdown"`
}

// DepositRequest is a user's UPI deposit submission.
type DepositRequest struct {
	UserID        uint
	Amount        float64
	UTRNumber     string
	ScreenshotURL string
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordBalanceChange(userID uint, oldBalance, newBalance float64)
	RecordError(operation, reason string)
}
