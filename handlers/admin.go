package handlers

import (
	"tournament-booking-system/middleware"
	"tournament-booking-system/models"
	"tournament-booking-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes expects r to be guarded by middleware.AdminAuth. The
// services check the role again on their own.
func SetupAdminRoutes(r fiber.Router, h *Handler) {
	r.Post("/categories", h.CreateCategory)
	r.Post("/tournaments", h.CreateTournament)
	r.Patch("/tournaments/:id/active", h.SetTournamentActive)
	r.Post("/tournaments/:id/room", h.ReleaseRoom)
	r.Post("/tournaments/:id/winner", h.RecordWinner)
	r.Post("/tournaments/:id/export", h.ExportSlots)

	r.Post("/users/import", h.ImportLegacyUsers)

	r.Get("/transactions", h.ListTransactions)
	r.Post("/transactions/:id/approve", h.ApproveTransaction)
	r.Post("/transactions/:id/reject", h.RejectTransaction)
}

type ActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// ReleaseRoomRequest accepts updated_at as a timestamp string, a
// {seconds, nanoseconds} object, or nothing (now).
type ReleaseRoomRequest struct {
	RoomID    string `json:"room_id"`
	Pass      string `json:"pass"`
	UpdatedAt any    `json:"updated_at"`
}

type WinnerRequest struct {
	UID string `json:"uid"`
}

type ImportUsersRequest struct {
	Users []models.LegacyUser `json:"users"`
}

type SettleRequest struct {
	Note string `json:"note"`
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c)
	}
	cat, err := h.tournaments.CreateCategory(c.Context(), middleware.GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *Handler) CreateTournament(c *fiber.Ctx) error {
	var in services.TournamentInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c)
	}
	t, err := h.tournaments.Create(c.Context(), middleware.GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) SetTournamentActive(c *fiber.Ctx) error {
	var req ActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.tournaments.SetActive(c.Context(), middleware.GetUserID(c), c.Params("id"), req.IsActive); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "is_active": req.IsActive})
}

func (h *Handler) ReleaseRoom(c *fiber.Ctx) error {
	var req ReleaseRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	t, err := h.tournaments.ReleaseRoom(c.Context(), middleware.GetUserID(c), c.Params("id"), req.RoomID, req.Pass, req.UpdatedAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) RecordWinner(c *fiber.Ctx) error {
	var req WinnerRequest
	if err := c.BodyParser(&req); err != nil || req.UID == "" {
		return badRequest(c)
	}
	u, err := h.tournaments.RecordWinner(c.Context(), middleware.GetUserID(c), c.Params("id"), req.UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

func (h *Handler) ExportSlots(c *fiber.Ctx) error {
	n, err := h.tournaments.ExportSlots(c.Context(), middleware.GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"exported": n})
}

func (h *Handler) ImportLegacyUsers(c *fiber.Ctx) error {
	var req ImportUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	res, err := h.profiles.ImportLegacyUsers(c.Context(), middleware.GetUserID(c), req.Users)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// ApproveTransaction answers 402 with the failed transaction when a withdrawal
// no longer fits the owner's balance.
func (h *Handler) ApproveTransaction(c *fiber.Ctx) error {
	var req SettleRequest
	_ = c.BodyParser(&req)

	t, err := h.wallet.Approve(c.Context(), c.Params("id"), middleware.GetUserID(c), req.Note)
	if err != nil {
		if t != nil {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error":       err.Error(),
				"transaction": t,
			})
		}
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) RejectTransaction(c *fiber.Ctx) error {
	var req SettleRequest
	_ = c.BodyParser(&req)

	t, err := h.wallet.Reject(c.Context(), c.Params("id"), middleware.GetUserID(c), req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}
