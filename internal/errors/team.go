package errors

var (
	ErrAlreadyInTeam = &DomainError{
		Code:    "ALREADY_IN_TEAM",
		Message: "leave your current team before joining another",
	}
	ErrTeamFull = &DomainError{
		Code:    "TEAM_FULL",
		Message: "team has reached its member limit",
	}
	ErrTeamClosed = &DomainError{
		Code:    "TEAM_CLOSED",
		Message: "team is not open for new players",
	}
	ErrNotTeamLeader = &DomainError{
		Code:    "NOT_TEAM_LEADER",
		Message: "only the team leader may perform this action",
	}
	ErrCannotRemoveLeader = &DomainError{
		Code:    "CANNOT_REMOVE_LEADER",
		Message: "the leader cannot be removed; disband the team instead",
	}
)
