package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAlreadySettled      = errors.New("transaction is not pending")
	ErrExceedsWithdrawable = errors.New("amount exceeds withdrawable earnings")
	ErrBonusAlreadyClaimed = errors.New("milestone bonus already claimed")
	ErrUnknownMilestone    = errors.New("unknown stats milestone")
	ErrMissingUTR          = errors.New("UTR number is required")
	ErrInvalidUTR          = errors.New("UTR number must be 12 digits")
	ErrAccountBanned       = errors.New("account is banned")
)
