package errors

var (
	ErrTournamentFull = &DomainError{
		Code:    "TOURNAMENT_FULL",
		Message: "tournament has reached its participant limit",
	}
	ErrAlreadyRegistered = &DomainError{
		Code:    "ALREADY_REGISTERED",
		Message: "user is already registered for this tournament",
	}
	ErrTournamentNotJoinable = &DomainError{
		Code:    "TOURNAMENT_NOT_JOINABLE",
		Message: "tournament is not open for registration",
	}
	ErrInvalidTransition = &DomainError{
		Code:    "INVALID_TRANSITION",
		Message: "tournament cannot move to the requested status",
	}
	ErrWinnerNotRegistered = &DomainError{
		Code:    "WINNER_NOT_REGISTERED",
		Message: "winner must be a registered participant",
	}
	ErrWinnerAlreadyDeclared = &DomainError{
		Code:    "WINNER_ALREADY_DECLARED",
		Message: "a winner has already been declared for this tournament",
	}
	ErrNotTournamentOrganizer = &DomainError{
		Code:    "NOT_TOURNAMENT_ORGANIZER",
		Message: "only the tournament's organizer may perform this action",
	}
	ErrAccountBanned = &DomainError{
		Code:    "ACCOUNT_BANNED",
		Message: "account is banned",
	}
)
