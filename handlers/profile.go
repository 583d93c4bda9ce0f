package handlers

import (
	"tournament-booking-system/middleware"
	"tournament-booking-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(r fiber.Router, h *Handler) {
	r.Post("/users/register", h.Register)
	r.Get("/users/me", h.GetProfile)
	r.Patch("/users/me/game-identity", h.UpdateGameIdentity)
	r.Post("/users/me/tour-seen", h.MarkTourSeen)
	r.Post("/feedback", h.SubmitFeedback)
}

type GameIdentityRequest struct {
	InGameName string `json:"in_game_name"`
	InGameUID  string `json:"in_game_uid"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c)
	}
	in.UID = middleware.GetUserID(c)

	u, err := h.profiles.Register(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	p, err := h.profiles.Get(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) UpdateGameIdentity(c *fiber.Ctx) error {
	var req GameIdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	u, err := h.profiles.UpdateGameIdentity(c.Context(), middleware.GetUserID(c), req.InGameName, req.InGameUID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

func (h *Handler) MarkTourSeen(c *fiber.Ctx) error {
	if err := h.profiles.MarkTourSeen(c.Context(), middleware.GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Leaderboard(c *fiber.Ctx) error {
	entries, err := h.leaderboard.Top(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}

func (h *Handler) SubmitFeedback(c *fiber.Ctx) error {
	var in services.FeedbackInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c)
	}
	f, err := h.feedback.Submit(c.Context(), middleware.GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Thank you for your feedback!",
		"feedback": f,
	})
}
