package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tournament-booking-system/cache"
	"tournament-booking-system/config"
	"tournament-booking-system/handlers"
	"tournament-booking-system/middleware"
	"tournament-booking-system/notify"
	"tournament-booking-system/repository"
	"tournament-booking-system/services"
	"tournament-booking-system/sheets"
	"tournament-booking-system/utils"
	"tournament-booking-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}
	store := repository.New(db)

	uploader, err := utils.NewProofUploader(ctx, cfg.Proofs)
	if err != nil {
		log.Fatal("failed to initialize proof storage:", err)
	}

	tg := cfg.Telegram
	notifier := notify.New(tg.BotToken, tg.AdminChatID, tg.ChannelID, tg.AdminUserIDs)
	if bot, ok := notifier.(*notify.TelegramNotifier); ok {
		go bot.Listen(ctx)
	}

	var lbCache services.LeaderboardCache
	if cfg.Redis.URL != "" {
		rc, err := cache.NewLeaderboardCache(cfg.Redis.URL, 2*cfg.Workers.LeaderboardRefreshInterval)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, leaderboard served from postgres: %v", err)
		} else {
			defer rc.Close()
			lbCache = rc
		}
	}

	var exporter services.SlotExporter
	if cfg.Sheets.ServiceAccount != "" && cfg.Sheets.SpreadsheetID != "" {
		exp, err := sheets.New(ctx, cfg.Sheets.ServiceAccount, cfg.Sheets.SpreadsheetID)
		if err != nil {
			log.Printf("⚠️  Google Sheets export disabled: %v", err)
		} else {
			exporter = exp
		}
	}

	econ := cfg.Economy
	bookingService := services.NewBookingService(store, econ.DefaultSlots)
	tournamentService := services.NewTournamentService(store, store, exporter, econ.DefaultSlots, econ.AdminRole, econ.UpdatesLocation)
	walletService := services.NewWalletService(store, store, uploader, notifier, econ.MinWithdraw, econ.AdminRole)
	updatesService := services.NewUpdatesService(store, store)
	profileService := services.NewProfileService(store, econ.StartingCoins, econ.AdminRole, econ.UpdatesLocation)
	leaderboardService := services.NewLeaderboardService(store, lbCache, cfg.Workers.LeaderboardSize)
	feedbackService := services.NewFeedbackService(store, store, notifier)

	scheduler, err := services.StartLeaderboardScheduler(leaderboardService, cfg.Workers.LeaderboardRefreshInterval)
	if err != nil {
		log.Fatal("failed to start leaderboard scheduler:", err)
	}

	roomWorker := workers.NewRoomReleaseNotifier(store, notifier)
	go workers.PollRoomReleases(ctx, roomWorker, cfg.Workers.RoomReleasePollInterval)

	app := fiber.New(fiber.Config{
		BodyLimit: utils.MaxProofSize + 1024*1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	// 🔐❗ GLOBAL: Only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware(cfg.Server.ServiceToken))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	if cfg.Proofs.Provider == "local" {
		app.Static(cfg.Proofs.LocalBaseURL, cfg.Proofs.LocalDir)
	}

	var tokens middleware.TokenValidator
	if cfg.AuthService != "" {
		tokens = services.NewAuthServiceClient(cfg.AuthService, cfg.Server.ServiceToken)
	} else {
		log.Println("⚠️  AUTH_SERVICE_URL not set, /updates/stream disabled")
	}

	h := handlers.New(
		bookingService,
		tournamentService,
		walletService,
		updatesService,
		profileService,
		leaderboardService,
		feedbackService,
	)
	handlers.SetupRoutes(app, h, tokens)

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Server.Port)
	log.Printf("✅ Room release polling running (every %s)", cfg.Workers.RoomReleasePollInterval)
	log.Printf("✅ Leaderboard refresh every %s", cfg.Workers.LeaderboardRefreshInterval)
	log.Printf("✅ CORS configured for origins: %s", cfg.Server.AllowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := scheduler.Shutdown(); err != nil {
		log.Printf("scheduler shutdown: %v", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
