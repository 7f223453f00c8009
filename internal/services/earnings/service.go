// Package earnings computes how much of a user's wallet balance came from
// tournament winnings and commissions and is therefore eligible for withdrawal.
// Deposits and bonuses stay in the wallet for entry fees only.
package earnings

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"vyuha/internal/models"
)

// descriptionPattern extracts a tournament name and optional rank from legacy
// ledger descriptions such as "Prize won for Summer Clash - Rank 2".
var descriptionPattern = regexp.MustCompile(`(?i)(?:Prize|Won|Winning|Commission).*?(?:for|from|in)\s+(.+?)(?:\s*-\s*Rank\s*(\d+))?$`)

// BreakdownEntry is one withdrawable-earning row resolved to a display label.
type BreakdownEntry struct {
	TransactionID  uint    `json:"transaction_id"`
	TournamentID   *uint   `json:"tournament_id,omitempty"`
	TournamentName string  `json:"tournament_name"`
	Position       string  `json:"position,omitempty"`
	Amount         float64 `json:"amount"`
	Type           string  `json:"type"`
}

// IsWithdrawableEarningType reports whether a transaction type counts toward
// withdrawable earnings.
func IsWithdrawableEarningType(txnType string) bool {
	t := strings.ToLower(strings.TrimSpace(txnType))
	switch t {
	case "winning", "prize", "prize_won":
		return true
	}
	return strings.Contains(t, "commission")
}

// WithdrawableEarnings returns the portion of the user's ledger that can be
// withdrawn: completed earning rows minus completed withdrawals, clamped at zero.
func WithdrawableEarnings(txns []models.WalletTransaction) float64 {
	var earned, withdrawn float64
	for _, txn := range txns {
		if !txn.IsCompleted() {
			continue
		}
		switch {
		case IsWithdrawableEarningType(txn.Type):
			earned += math.Abs(txn.Amount)
		case txn.NormalizedType() == models.TransactionTypeWithdrawal:
			withdrawn += math.Abs(txn.Amount)
		}
	}
	return math.Max(0, earned-withdrawn)
}

// EarningTransactions filters the completed withdrawable-earning rows.
func EarningTransactions(txns []models.WalletTransaction) []models.WalletTransaction {
	var out []models.WalletTransaction
	for _, txn := range txns {
		if txn.IsCompleted() && IsWithdrawableEarningType(txn.Type) {
			out = append(out, txn)
		}
	}
	return out
}

// BuildBreakdown resolves each earning row to a tournament label and position.
// Structured TournamentID/Rank fields win; the description regex is the
// fallback for rows written before those fields existed.
func BuildBreakdown(rows []models.WalletTransaction, tournamentTitles map[uint]string) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(rows))
	for _, row := range rows {
		entry := BreakdownEntry{
			TransactionID: row.ID,
			TournamentID:  row.TournamentID,
			Amount:        math.Abs(row.Amount),
			Type:          row.NormalizedType(),
		}

		if row.TournamentID != nil {
			if title, ok := tournamentTitles[*row.TournamentID]; ok {
				entry.TournamentName = title
			}
			if row.Rank > 0 {
				entry.Position = rankLabel(row.Rank)
			}
		}

		if entry.TournamentName == "" {
			name, position := parseDescription(row.Description, row.Type)
			entry.TournamentName = name
			if entry.Position == "" {
				entry.Position = position
			}
		}

		entries = append(entries, entry)
	}
	return entries
}

func parseDescription(description, txnType string) (name, position string) {
	desc := strings.TrimSpace(description)
	if desc != "" {
		if m := descriptionPattern.FindStringSubmatch(desc); m != nil {
			name = strings.TrimSpace(m[1])
			if m[2] != "" {
				position = "Rank " + m[2]
			}
			return name, position
		}
		return desc, ""
	}
	if strings.Contains(strings.ToLower(txnType), "commission") {
		return "Commission", ""
	}
	return "Tournament Prize", ""
}

func rankLabel(rank int) string {
	return "Rank " + strconv.Itoa(rank)
}
