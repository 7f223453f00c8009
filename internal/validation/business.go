package validation

import (
	"vyuha/internal/models"
)

// Deposit validates a UPI deposit submission.
func (v *Validator) Deposit(amount float64, utr string) {
	v.Range("amount", amount, MinDepositAmount, MaxDepositAmount)
	v.Required("utr_number", utr)
	if utr != "" {
		v.UTR("utr_number", utr)
	}
}

// Withdrawal validates a withdrawal request against wallet limits.
func (v *Validator) Withdrawal(amount float64) {
	v.Range("amount", amount, MinWithdrawalAmount, MaxWithdrawalAmount)
}

// Tournament validates a tournament creation request.
func (v *Validator) Tournament(t *models.Tournament) {
	v.Required("title", t.Title)
	v.MaxLength("title", t.Title, MaxTitleLength)
	v.Required("game", t.Game)
	v.Check(t.EntryFee >= MinEntryFee && t.EntryFee <= MaxEntryFee,
		"entry_fee", "must be a non-negative amount within platform limits")
	v.Range("max_participants", float64(t.MaxParticipants), 2, MaxParticipantsCap)
	v.Future("start_date", t.StartDate)
}
