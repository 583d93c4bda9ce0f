package handlers

import (
	"tournament-booking-system/middleware"
	"tournament-booking-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(r fiber.Router, h *Handler) {
	r.Get("/tournaments/:id", h.GetTournament)
	r.Get("/tournaments/:id/slots", h.GetTournamentSlots)
	r.Post("/tournaments/:id/book", h.BookSlot)
	r.Get("/users/me/tournaments", h.MyTournaments)
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	cats, err := h.tournaments.ListCategories(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": cats})
}

func (h *Handler) ListCategoryTournaments(c *fiber.Ctx) error {
	group, err := h.tournaments.ListByCategory(c.Context(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(group)
}

// ListTournaments returns active tournaments, grouped by category with ?grouped=true.
func (h *Handler) ListTournaments(c *fiber.Ctx) error {
	if c.QueryBool("grouped") {
		groups, err := h.tournaments.Grouped(c.Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"categories": groups})
	}
	ts, err := h.tournaments.ListActive(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tournaments": ts})
}

func (h *Handler) GetTournament(c *fiber.Ctx) error {
	d, err := h.tournaments.Get(c.Context(), c.Params("id"), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

func (h *Handler) GetTournamentSlots(c *fiber.Ctx) error {
	d, err := h.tournaments.Get(c.Context(), c.Params("id"), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"tournament_id":   d.ID,
		"capacity":        d.Capacity,
		"available_slots": d.AvailableSlots,
		"booked_slots":    d.BookedSlots,
		"my_slot":         d.MySlot,
	})
}

func (h *Handler) BookSlot(c *fiber.Ctx) error {
	var req services.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.TournamentID = c.Params("id")
	req.UserID = middleware.GetUserID(c)

	slot, err := h.booking.BookSlot(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Slot booked successfully!",
		"slot":    slot,
	})
}

func (h *Handler) MyTournaments(c *fiber.Ctx) error {
	ts, err := h.tournaments.MyTournaments(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tournaments": ts})
}
