package repositories

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already taken")
	ErrPhoneTaken          = errors.New("phone number already taken")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrTransactionNotFound = errors.New("wallet transaction not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrSettingNotFound     = errors.New("platform setting not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrAlreadyRegistered   = errors.New("user already registered for tournament")
	ErrTeamNotFound        = errors.New("team not found")
	ErrMembershipNotFound  = errors.New("team membership not found")
	ErrAlreadyInTeam       = errors.New("user already belongs to a team")
)
