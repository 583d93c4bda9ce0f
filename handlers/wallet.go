package handlers

import (
	"strings"

	"tournament-booking-system/middleware"
	"tournament-booking-system/models"
	"tournament-booking-system/services"
	"tournament-booking-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(r fiber.Router, h *Handler) {
	r.Get("/wallet/balance", h.GetBalance)
	r.Get("/wallet/ledger", h.GetLedger)
	r.Post("/wallet/deposit", h.RequestDeposit)
	r.Post("/wallet/withdraw", h.RequestWithdraw)
	r.Get("/wallet/transactions", h.ListTransactions)
}

type DepositRequest struct {
	Amount   int64  `json:"amount" form:"amount"`
	ProofURL string `json:"proof_url" form:"proof_url"`
}

type WithdrawRequest struct {
	Amount int64 `json:"amount"`
	services.WithdrawAccount
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	coins, err := h.wallet.Balance(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"coins": coins})
}

func (h *Handler) GetLedger(c *fiber.Ctx) error {
	entries, err := h.wallet.Ledger(c.Context(), middleware.GetUserID(c), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

// RequestDeposit accepts a multipart form with a "proof" image, or JSON with
// the proof_url of an image the app already uploaded.
func (h *Handler) RequestDeposit(c *fiber.Ctx) error {
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	proof := services.ProofInput{URL: req.ProofURL}
	if fh, err := c.FormFile("proof"); err == nil {
		upload, err := utils.ReadUpload(fh)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Payment proof must be an image up to 10MB",
			})
		}
		proof.File = upload
	}

	t, err := h.wallet.RequestDeposit(c.Context(), middleware.GetUserID(c), req.Amount, proof)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Deposit request submitted! Admin will verify and add coins.",
		"transaction": t,
	})
}

func (h *Handler) RequestWithdraw(c *fiber.Ctx) error {
	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	t, err := h.wallet.RequestWithdraw(c.Context(), middleware.GetUserID(c), req.Amount, req.WithdrawAccount)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Withdrawal request submitted! Admin will process it soon.",
		"transaction": t,
	})
}

// ListTransactions serves both the player's history and the admin queue; the
// service decides which view the caller gets.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	statuses := parseStatuses(c.Query("status"))
	txs, err := h.wallet.ListTransactions(c.Context(), middleware.GetUserID(c), statuses)
	if err != nil {
		return respondError(c, err)
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return c.JSON(fiber.Map{
		"transactions": txs,
		"count":        len(txs),
	})
}

func parseStatuses(raw string) []models.TransactionStatus {
	var out []models.TransactionStatus
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, models.TransactionStatus(strings.ToLower(s)))
		}
	}
	return out
}
