// handlers/handler.go
package handlers

import (
	"tournament-booking-system/middleware"
	"tournament-booking-system/services"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	booking     *services.BookingService
	tournaments *services.TournamentService
	wallet      *services.WalletService
	updates     *services.UpdatesService
	profiles    *services.ProfileService
	leaderboard *services.LeaderboardService
	feedback    *services.FeedbackService
}

func New(
	booking *services.BookingService,
	tournaments *services.TournamentService,
	wallet *services.WalletService,
	updates *services.UpdatesService,
	profiles *services.ProfileService,
	leaderboard *services.LeaderboardService,
	feedback *services.FeedbackService,
) *Handler {
	return &Handler{
		booking:     booking,
		tournaments: tournaments,
		wallet:      wallet,
		updates:     updates,
		profiles:    profiles,
		leaderboard: leaderboard,
		feedback:    feedback,
	}
}

// SetupRoutes registers every route. Routes that do not carry the gateway's
// user headers are registered before the user context group.
func SetupRoutes(app *fiber.App, h *Handler, tokens middleware.TokenValidator) {
	app.Get("/health", h.Health)

	// 🔓 Catalog
	app.Get("/categories", h.ListCategories)
	app.Get("/categories/:slug/tournaments", h.ListCategoryTournaments)
	app.Get("/tournaments", h.ListTournaments)
	app.Get("/leaderboard", h.Leaderboard)

	// 📡 EventSource clients authenticate with query params
	if tokens != nil {
		app.Get("/updates/stream", middleware.SSEAuthMiddleware(tokens), h.StreamUnread)
	}

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())
	SetupTournamentRoutes(secured, h)
	SetupWalletRoutes(secured, h)
	SetupProfileRoutes(secured, h)
	SetupUpdatesRoutes(secured, h)

	// 🛡️ Admin routes
	admin := secured.Group("/admin", middleware.AdminAuth(h.profiles))
	SetupAdminRoutes(admin, h)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
