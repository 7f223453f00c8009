package handlers

import (
	"errors"
	"strings"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/repositories"
	"vyuha/internal/services/team"
	"vyuha/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TeamHandler struct {
	teamService team.Service
}

func NewTeamHandler(teamService team.Service) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// ListOpenTeams returns teams accepting new players with roster sizes.
func (h *TeamHandler) ListOpenTeams(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)

	teams, total, err := h.teamService.ListOpen(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load teams")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(teams, p))
}

// CreateTeam creates a team led by the caller.
func (h *TeamHandler) CreateTeam(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input team.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	created, err := h.teamService.Create(c.Context(), claims.UserID, input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyInTeam) {
			return utils.BadRequest(c, err.Error())
		}
		if strings.Contains(err.Error(), "name") {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to create team")
	}

	return utils.Success(c, fiber.Map{"team": created})
}

// GetMyTeam returns the caller's team and roster.
func (h *TeamHandler) GetMyTeam(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	view, err := h.teamService.MyTeam(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return utils.NotFound(c, "You are not in a team")
		}
		return utils.InternalError(c, "Failed to load team")
	}

	return utils.Success(c, view)
}

// JoinTeam adds the caller to an open team.
func (h *TeamHandler) JoinTeam(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.BadRequest(c, "Invalid team id")
	}

	if err := h.teamService.Join(c.Context(), claims.UserID, uint(id)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return utils.NotFound(c, "Team not found")
		case errors.Is(err, domainerrors.ErrAlreadyInTeam),
			errors.Is(err, domainerrors.ErrTeamClosed),
			errors.Is(err, domainerrors.ErrTeamFull):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to join team")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Joined team"})
}

// LeaveTeam removes the caller from their team; a leader disbands it.
func (h *TeamHandler) LeaveTeam(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.teamService.Leave(c.Context(), claims.UserID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return utils.NotFound(c, "You are not in a team")
		}
		return utils.InternalError(c, "Failed to leave team")
	}

	return utils.Success(c, fiber.Map{"message": "Left team"})
}

// AddTeamMember lets the leader add a player to the roster by username.
func (h *TeamHandler) AddTeamMember(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&input); err != nil || input.Username == "" {
		return utils.BadRequest(c, "Username is required")
	}

	if err := h.teamService.AddMember(c.Context(), claims.UserID, input.Username); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMembershipNotFound):
			return utils.NotFound(c, "You are not in a team")
		case errors.Is(err, repositories.ErrUserNotFound):
			return utils.NotFound(c, "No player found with this username")
		case errors.Is(err, domainerrors.ErrNotTeamLeader):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, domainerrors.ErrTeamFull),
			errors.Is(err, domainerrors.ErrAlreadyInTeam):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to add member")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Member added"})
}

// RemoveTeamMember lets the leader remove a roster member.
func (h *TeamHandler) RemoveTeamMember(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	userID, err := c.ParamsInt("userId")
	if err != nil || userID < 1 {
		return utils.BadRequest(c, "Invalid user id")
	}

	if err := h.teamService.RemoveMember(c.Context(), claims.UserID, uint(userID)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMembershipNotFound):
			return utils.NotFound(c, "Membership not found")
		case errors.Is(err, domainerrors.ErrNotTeamLeader):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, domainerrors.ErrCannotRemoveLeader):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to remove member")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Member removed"})
}

// SetTeamOpen toggles whether the team accepts open joins.
func (h *TeamHandler) SetTeamOpen(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Open bool `json:"open"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.teamService.SetOpen(c.Context(), claims.UserID, input.Open); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMembershipNotFound):
			return utils.NotFound(c, "You are not in a team")
		case errors.Is(err, domainerrors.ErrNotTeamLeader):
			return utils.Forbidden(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to update team")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Team updated"})
}
