package handlers

import (
	"errors"
	"log"

	"tournament-booking-system/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to a status and a message the app can show.
func respondError(c *fiber.Ctx, err error) error {
	var (
		ve  *models.ValidationError
		ice *models.InsufficientCoinsError
	)
	switch {
	case errors.As(err, &ve):
		body := fiber.Map{"error": ve.Message}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &ice):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":   ice.Error(),
			"need":    ice.Need,
			"balance": ice.Have,
		})
	}

	status, msg := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ [HTTP] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden, "access denied"
	case errors.Is(err, models.ErrSlotTaken):
		return fiber.StatusConflict, "This slot is already booked. Please choose another slot."
	case errors.Is(err, models.ErrAlreadyBooked):
		return fiber.StatusConflict, "You have already booked a slot in this tournament."
	case errors.Is(err, models.ErrTournamentClosed):
		return fiber.StatusConflict, "This tournament is not accepting bookings."
	case errors.Is(err, models.ErrTransactionSettled):
		return fiber.StatusConflict, "This request has already been processed."
	case errors.Is(err, models.ErrAlreadyExists):
		return fiber.StatusConflict, "already exists"
	case errors.Is(err, models.ErrInsufficientCoins):
		return fiber.StatusPaymentRequired, "Insufficient coins"
	case errors.Is(err, models.ErrUnavailable):
		return fiber.StatusServiceUnavailable, "This feature is not configured"
	}
	return fiber.StatusInternalServerError, "internal server error"
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body",
	})
}
