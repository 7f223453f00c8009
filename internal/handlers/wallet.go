package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"vyuha/internal/services/wallet"
	"vyuha/internal/storage"
	"vyuha/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// allowed screenshot content types
var screenshotTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type WalletHandler struct {
	walletService wallet.Service
	uploader      storage.FileUploader
}

func NewWalletHandler(walletService wallet.Service, uploader storage.FileUploader) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		uploader:      uploader,
	}
}

// GetBalance returns the wallet summary for the authenticated user.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	balance, err := h.walletService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load wallet")
	}
	return utils.Success(c, balance)
}

// GetTransactions lists the user's ledger, newest first.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)
	txns, total, err := h.walletService.GetTransactions(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load transactions")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(txns, p))
}

// GetWithdrawable returns withdrawable earnings with the breakdown.
func (h *WalletHandler) GetWithdrawable(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	withdrawable, err := h.walletService.GetWithdrawable(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to compute withdrawable earnings")
	}
	return utils.Success(c, withdrawable)
}

// SubmitDeposit records a pending UPI deposit for admin review.
func (h *WalletHandler) SubmitDeposit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Amount        float64 `json:"amount"`
		UTRNumber     string  `json:"utr_number"`
		ScreenshotURL string  `json:"screenshot_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	txn, err := h.walletService.SubmitDeposit(c.Context(), wallet.DepositRequest{
		UserID:        claims.UserID,
		Amount:        input.Amount,
		UTRNumber:     input.UTRNumber,
		ScreenshotURL: input.ScreenshotURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount),
			errors.Is(err, wallet.ErrMissingUTR),
			errors.Is(err, wallet.ErrInvalidUTR):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to submit deposit")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"transaction": txn})
}

// UploadScreenshot stores a deposit screenshot and returns its public URL.
func (h *WalletHandler) UploadScreenshot(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	if h.uploader == nil {
		return utils.InternalError(c, "File storage is not configured")
	}

	fileHeader, err := c.FormFile("screenshot")
	if err != nil {
		return utils.BadRequest(c, "screenshot file is required")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !screenshotTypes[contentType] {
		return utils.BadRequest(c, "screenshot must be a JPEG, PNG or WebP image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.InternalError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := fmt.Sprintf("deposits/%d/%s%s", claims.UserID, uuid.NewString(), ext)

	result, err := h.uploader.Upload(c.Context(), key, contentType, file)
	if err != nil {
		return utils.InternalError(c, "Failed to store screenshot")
	}

	return utils.Success(c, fiber.Map{"url": result.Location})
}

// RequestWithdrawal creates a pending withdrawal capped at withdrawable earnings.
func (h *WalletHandler) RequestWithdrawal(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	txn, err := h.walletService.RequestWithdrawal(c.Context(), claims.UserID, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, wallet.ErrExceedsWithdrawable):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, wallet.ErrAccountBanned):
			return utils.Forbidden(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to request withdrawal")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"transaction": txn})
}

// ClaimBonus pays a stats milestone bonus.
func (h *WalletHandler) ClaimBonus(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Points int `json:"points"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	txn, err := h.walletService.ClaimStatsBonus(c.Context(), claims.UserID, input.Points)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrUnknownMilestone), errors.Is(err, wallet.ErrBonusAlreadyClaimed):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to claim bonus")
		}
	}

	return utils.Success(c, fiber.Map{"transaction": txn})
}
