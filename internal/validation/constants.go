package validation

const (
	// Amount limits (INR)
	MinDepositAmount    = 10.00
	MaxDepositAmount    = 100000.00
	MinWithdrawalAmount = 50.00
	MaxWithdrawalAmount = 50000.00

	// Tournament limits
	MinEntryFee        = 0.00
	MaxEntryFee        = 10000.00
	MaxParticipantsCap = 1000

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxDescriptionLength = 500
	MaxTitleLength       = 120
)
