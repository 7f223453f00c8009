package handlers

import (
	"context"
	"errors"
	"time"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/services/settlement"
	"vyuha/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TournamentHandler struct {
	settlementService settlement.Service
}

func NewTournamentHandler(settlementService settlement.Service) *TournamentHandler {
	return &TournamentHandler{settlementService: settlementService}
}

// ListTournaments returns tournaments, optionally filtered by ?status=.
func (h *TournamentHandler) ListTournaments(c *fiber.Ctx) error {
	status := c.Query("status")
	p := utils.GetPagination(c, 1, 20)

	tournaments, total, err := h.settlementService.ListTournaments(c.Context(), status, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load tournaments")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(tournaments, p))
}

// GetTournament returns one tournament with its registration count.
func (h *TournamentHandler) GetTournament(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid tournament id")
	}

	t, registered, err := h.settlementService.GetTournament(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return utils.NotFound(c, "Tournament not found")
		}
		return utils.InternalError(c, "Failed to load tournament")
	}

	return utils.Success(c, fiber.Map{
		"tournament":       t,
		"registered_count": registered,
		"slots_remaining":  remainingSlots(t, registered),
	})
}

func remainingSlots(t *models.Tournament, registered int64) int64 {
	if t.MaxParticipants <= 0 {
		return -1
	}
	remaining := int64(t.MaxParticipants) - registered
	if remaining < 0 {
		return 0
	}
	return remaining
}

// JoinTournament registers the authenticated user and settles the entry fee.
func (h *TournamentHandler) JoinTournament(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid tournament id")
	}

	if err := h.settlementService.JoinTournament(c.Context(), claims.UserID, uint(id)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return utils.NotFound(c, "Tournament not found")
		case errors.Is(err, domainerrors.ErrAccountBanned):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, domainerrors.ErrTournamentFull),
			errors.Is(err, domainerrors.ErrAlreadyRegistered),
			errors.Is(err, domainerrors.ErrTournamentNotJoinable),
			errors.Is(err, repositories.ErrInsufficientBalance):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to join tournament")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Registered successfully"})
}

// CreateTournament creates an upcoming tournament owned by the caller.
func (h *TournamentHandler) CreateTournament(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Title           string    `json:"title"`
		Game            string    `json:"game"`
		Description     string    `json:"description"`
		EntryFee        float64   `json:"entry_fee"`
		MaxParticipants int       `json:"max_participants"`
		StartDate       time.Time `json:"start_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	t := &models.Tournament{
		Title:           input.Title,
		Game:            input.Game,
		Description:     input.Description,
		EntryFee:        input.EntryFee,
		MaxParticipants: input.MaxParticipants,
		StartDate:       input.StartDate,
	}
	if err := h.settlementService.CreateTournament(c.Context(), claims.UserID, t); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"tournament": t})
}

// ListOwnTournaments returns the tournaments organized by the caller.
func (h *TournamentHandler) ListOwnTournaments(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	tournaments, err := h.settlementService.ListByOrganizer(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load tournaments")
	}
	return utils.Success(c, fiber.Map{"tournaments": tournaments})
}

// StartTournament moves an upcoming tournament to ongoing.
func (h *TournamentHandler) StartTournament(c *fiber.Ctx) error {
	return h.transition(c, h.settlementService.StartTournament, "Tournament started")
}

// CancelTournament cancels an upcoming tournament and refunds every entry fee.
func (h *TournamentHandler) CancelTournament(c *fiber.Ctx) error {
	return h.transition(c, h.settlementService.CancelTournament, "Tournament cancelled")
}

func (h *TournamentHandler) transition(c *fiber.Ctx, op func(ctx context.Context, organizerID, tournamentID uint) error, message string) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid tournament id")
	}

	if err := op(c.Context(), claims.UserID, uint(id)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return utils.NotFound(c, "Tournament not found")
		case errors.Is(err, domainerrors.ErrNotTournamentOrganizer):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, domainerrors.ErrInvalidTransition):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to update tournament")
		}
	}
	return utils.Success(c, fiber.Map{"message": message})
}

// DeclareWinner marks a registered participant as the winner and pays the pool.
func (h *TournamentHandler) DeclareWinner(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid tournament id")
	}

	var input struct {
		WinnerUserID uint `json:"winner_user_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.WinnerUserID == 0 {
		return utils.BadRequest(c, "winner_user_id is required")
	}

	if err := h.settlementService.DeclareWinner(c.Context(), claims.UserID, uint(id), input.WinnerUserID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return utils.NotFound(c, "Tournament not found")
		case errors.Is(err, domainerrors.ErrNotTournamentOrganizer):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, domainerrors.ErrWinnerNotRegistered),
			errors.Is(err, domainerrors.ErrWinnerAlreadyDeclared),
			errors.Is(err, domainerrors.ErrInvalidTransition):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to declare winner")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Winner declared"})
}
