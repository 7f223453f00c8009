package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// User permissions
	PermissionWalletRead      = "wallet:read"
	PermissionWalletWrite     = "wallet:write"
	PermissionTransactionRead = "transaction:read"
	PermissionTournamentJoin  = "tournament:join"
	PermissionChangePassword  = "user:change-password"

	// Organizer permissions
	PermissionTournamentManage = "tournament:manage"

	// Admin money operations
	PermissionDepositsManage    = "deposits:manage"
	PermissionWithdrawalsManage = "withdrawals:manage"
	PermissionSettingsManage    = "settings:manage"
	PermissionUsersManage       = "users:manage"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTournamentJoin,
			PermissionTournamentManage,
			PermissionChangePassword,
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionDepositsManage,
			PermissionWithdrawalsManage,
			PermissionSettingsManage,
			PermissionUsersManage,
		}
	case RoleOrganizer:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTournamentJoin,
			PermissionTournamentManage,
			PermissionChangePassword,
		}
	case RoleUser:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTournamentJoin,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
