package errors

var (
	ErrCommissionSplitInvalid = &DomainError{
		Code:    "COMMISSION_SPLIT_INVALID",
		Message: "organizer, platform and prize pool percentages must sum to 100",
	}
	ErrUnknownSettingKey = &DomainError{
		Code:    "UNKNOWN_SETTING_KEY",
		Message: "unknown platform setting key",
	}
)
