package handlers

import (
	"context"
	"errors"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/services/admin"
	"vyuha/internal/services/settings"
	"vyuha/internal/services/settlement"
	"vyuha/internal/services/wallet"
	"vyuha/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService      admin.Service
	walletService     wallet.Service
	settingsService   settings.Service
	settlementService settlement.Service
}

func NewAdminHandler(
	adminService admin.Service,
	walletService wallet.Service,
	settingsService settings.Service,
	settlementService settlement.Service,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		walletService:     walletService,
		settingsService:   settingsService,
		settlementService: settlementService,
	}
}

// GetSettings returns the commission split and payment details.
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	split, err := h.settingsService.Get(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to load settings")
	}
	payment, err := h.settingsService.GetPaymentDetails(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to load settings")
	}
	return utils.Success(c, fiber.Map{
		"commission": split,
		"payment":    payment,
	})
}

// UpdateSettings replaces the commission split. The three percentages must
// cover the whole fee.
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var input settings.CommissionSettings
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.settingsService.Save(c.Context(), input); err != nil {
		if errors.Is(err, domainerrors.ErrCommissionSplitInvalid) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to save settings")
	}
	return utils.Success(c, fiber.Map{"commission": input})
}

// UpdatePaymentDetails saves the UPI account deposits are sent to.
func (h *AdminHandler) UpdatePaymentDetails(c *fiber.Ctx) error {
	var input settings.PaymentDetails
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.settingsService.SetPaymentDetails(c.Context(), input); err != nil {
		return utils.InternalError(c, "Failed to save payment details")
	}
	return utils.Success(c, fiber.Map{"payment": input})
}

// ListPendingDeposits returns deposits awaiting review.
func (h *AdminHandler) ListPendingDeposits(c *fiber.Ctx) error {
	return h.listTransactions(c, models.TransactionTypeDeposit, models.TransactionStatusPending)
}

// ListPendingWithdrawals returns withdrawal requests awaiting review.
func (h *AdminHandler) ListPendingWithdrawals(c *fiber.Ctx) error {
	return h.listTransactions(c, models.TransactionTypeWithdrawal, models.TransactionStatusPending)
}

// ListTransactions returns the platform-wide ledger, filterable by ?type= and ?status=.
func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	return h.listTransactions(c, c.Query("type"), c.Query("status"))
}

func (h *AdminHandler) listTransactions(c *fiber.Ctx, txType, status string) error {
	p := utils.GetPagination(c, 1, 20)
	txns, total, err := h.adminService.ListTransactions(c.Context(), txType, status, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load transactions")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(txns, p))
}

// ApproveDeposit credits the wallet and completes the deposit.
func (h *AdminHandler) ApproveDeposit(c *fiber.Ctx) error {
	return h.reviewTransaction(c, h.walletService.ApproveDeposit, "Deposit approved")
}

// RejectDeposit marks the deposit failed without touching the balance.
func (h *AdminHandler) RejectDeposit(c *fiber.Ctx) error {
	return h.reviewTransaction(c, h.walletService.RejectDeposit, "Deposit rejected")
}

// ApproveWithdrawal debits the wallet and completes the withdrawal.
func (h *AdminHandler) ApproveWithdrawal(c *fiber.Ctx) error {
	return h.reviewTransaction(c, h.walletService.ApproveWithdrawal, "Withdrawal approved")
}

// RejectWithdrawal marks the withdrawal failed without touching the balance.
func (h *AdminHandler) RejectWithdrawal(c *fiber.Ctx) error {
	return h.reviewTransaction(c, h.walletService.RejectWithdrawal, "Withdrawal rejected")
}

func (h *AdminHandler) reviewTransaction(c *fiber.Ctx, op func(ctx context.Context, txnID uint) error, message string) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid transaction id")
	}

	if err := op(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTransactionNotFound):
			return utils.NotFound(c, "Transaction not found")
		case errors.Is(err, wallet.ErrAlreadySettled),
			errors.Is(err, repositories.ErrInsufficientBalance):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to update transaction")
		}
	}
	return utils.Success(c, fiber.Map{"message": message})
}

// ListUsers returns users for the admin panel.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	users, total, err := h.adminService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load users")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(users, p))
}

// BanUser bans a user and invalidates their sessions.
func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid user id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.adminService.BanUser(c.Context(), uint(id), input.Reason); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to ban user")
	}
	return utils.Success(c, fiber.Map{"message": "User banned"})
}

// UnbanUser restores a banned account.
func (h *AdminHandler) UnbanUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid user id")
	}

	if err := h.adminService.UnbanUser(c.Context(), uint(id)); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to unban user")
	}
	return utils.Success(c, fiber.Map{"message": "User unbanned"})
}

// Dashboard returns platform-wide counters and revenue sums.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.adminService.Dashboard(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to load dashboard")
	}
	return utils.Success(c, stats)
}

// RecalculateTournament re-derives a tournament's pool and earnings from its
// registration count, outside the scheduled sweep.
func (h *AdminHandler) RecalculateTournament(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid tournament id")
	}

	if err := h.settlementService.Recalculate(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return utils.NotFound(c, "Tournament not found")
		case errors.Is(err, domainerrors.ErrInvalidTransition):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to recalculate tournament")
		}
	}
	return utils.Success(c, fiber.Map{"message": "Tournament recalculated"})
}
