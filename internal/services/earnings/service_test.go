package earnings

import (
	"testing"

	"vyuha/internal/models"

	"github.com/stretchr/testify/assert"
)

func completed(txnType string, amount float64) models.WalletTransaction {
	return models.WalletTransaction{
		Type:   txnType,
		Amount: amount,
		Status: models.TransactionStatusCompleted,
	}
}

func TestIsWithdrawableEarningType(t *testing.T) {
	tests := []struct {
		txnType string
		want    bool
	}{
		{"winning", true},
		{"prize", true},
		{"prize_won", true},
		{"Prize", true},
		{"organizer_commission", true},
		{"COMMISSION", true},
		{"deposit", false},
		{"bonus", false},
		{"withdrawal", false},
		{"entry_fee", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.txnType, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithdrawableEarningType(tt.txnType))
		})
	}
}

func TestWithdrawableEarnings(t *testing.T) {
	t.Run("empty ledger is zero", func(t *testing.T) {
		assert.Zero(t, WithdrawableEarnings(nil))
		assert.Zero(t, WithdrawableEarnings([]models.WalletTransaction{}))
	})

	t.Run("prize minus withdrawal", func(t *testing.T) {
		txns := []models.WalletTransaction{
			completed("prize", 500),
			completed("withdrawal", -200),
		}
		assert.Equal(t, 300.0, WithdrawableEarnings(txns))
	})

	t.Run("bonus does not count", func(t *testing.T) {
		txns := []models.WalletTransaction{
			completed("bonus", 50),
		}
		assert.Zero(t, WithdrawableEarnings(txns))
	})

	t.Run("clamped at zero when withdrawals exceed earnings", func(t *testing.T) {
		txns := []models.WalletTransaction{
			completed("prize", 100),
			completed("withdrawal", -250),
		}
		assert.Zero(t, WithdrawableEarnings(txns))
	})

	t.Run("pending rows are ignored", func(t *testing.T) {
		txns := []models.WalletTransaction{
			completed("prize", 500),
			{Type: "withdrawal", Amount: -400, Status: models.TransactionStatusPending},
			{Type: "prize", Amount: 1000, Status: models.TransactionStatusFailed},
		}
		assert.Equal(t, 500.0, WithdrawableEarnings(txns))
	})

	t.Run("deposits and entry fees never contribute", func(t *testing.T) {
		txns := []models.WalletTransaction{
			completed("deposit", 5000),
			completed("entry_fee", -100),
			completed("winning", 250),
		}
		assert.Equal(t, 250.0, WithdrawableEarnings(txns))
	})

	t.Run("idempotent over repeated calls", func(t *testing.T) {
		txns := []models.WalletTransaction{
			completed("commission", 75),
			completed("withdrawal", -25),
		}
		first := WithdrawableEarnings(txns)
		second := WithdrawableEarnings(txns)
		assert.Equal(t, first, second)
		assert.Equal(t, 50.0, first)
	})
}

func TestEarningTransactions(t *testing.T) {
	txns := []models.WalletTransaction{
		completed("prize", 500),
		completed("deposit", 100),
		completed("organizer_commission", 30),
		{Type: "prize", Amount: 200, Status: models.TransactionStatusPending},
	}

	got := EarningTransactions(txns)
	assert.Len(t, got, 2)
	assert.Equal(t, "prize", got[0].Type)
	assert.Equal(t, "organizer_commission", got[1].Type)
}

func TestBuildBreakdown(t *testing.T) {
	t.Run("description parse with rank", func(t *testing.T) {
		rows := []models.WalletTransaction{
			{
				ID:          1,
				Type:        "prize",
				Amount:      500,
				Status:      models.TransactionStatusCompleted,
				Description: "Prize won for Summer Clash - Rank 2",
			},
		}
		entries := BuildBreakdown(rows, nil)
		assert.Len(t, entries, 1)
		assert.Equal(t, "Summer Clash", entries[0].TournamentName)
		assert.Equal(t, "Rank 2", entries[0].Position)
		assert.Equal(t, 500.0, entries[0].Amount)
	})

	t.Run("structured fields win over description", func(t *testing.T) {
		tid := uint(7)
		rows := []models.WalletTransaction{
			{
				ID:           2,
				Type:         "prize",
				Amount:       800,
				Status:       models.TransactionStatusCompleted,
				TournamentID: &tid,
				Rank:         1,
				Description:  "Prize won for Wrong Name - Rank 9",
			},
		}
		titles := map[uint]string{7: "Winter Invitational"}
		entries := BuildBreakdown(rows, titles)
		assert.Equal(t, "Winter Invitational", entries[0].TournamentName)
		assert.Equal(t, "Rank 1", entries[0].Position)
	})

	t.Run("commission without description", func(t *testing.T) {
		rows := []models.WalletTransaction{
			{ID: 3, Type: "organizer_commission", Amount: 30, Status: models.TransactionStatusCompleted},
		}
		entries := BuildBreakdown(rows, nil)
		assert.Equal(t, "Commission", entries[0].TournamentName)
		assert.Empty(t, entries[0].Position)
	})

	t.Run("prize without description", func(t *testing.T) {
		rows := []models.WalletTransaction{
			{ID: 4, Type: "prize", Amount: 120, Status: models.TransactionStatusCompleted},
		}
		entries := BuildBreakdown(rows, nil)
		assert.Equal(t, "Tournament Prize", entries[0].TournamentName)
	})

	t.Run("unmatched description falls back to raw text", func(t *testing.T) {
		rows := []models.WalletTransaction{
			{
				ID:          5,
				Type:        "prize",
				Amount:      90,
				Status:      models.TransactionStatusCompleted,
				Description: "Manual adjustment",
			},
		}
		entries := BuildBreakdown(rows, nil)
		assert.Equal(t, "Manual adjustment", entries[0].TournamentName)
	})
}
