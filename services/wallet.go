// services/wallet.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tournament-booking-system/models"
	"tournament-booking-system/notify"
	"tournament-booking-system/repository"
	"tournament-booking-system/utils"

	"github.com/google/uuid"
)

const proofUploadTimeout = 10 * time.Second

type WalletService struct {
	users       UserStore
	txs         TransactionStore
	uploader    utils.ProofUploader
	notifier    notify.Notifier
	admin       adminGuard
	minWithdraw int64

	uploadTimeout time.Duration
	now           func() time.Time
}

func NewWalletService(users UserStore, txs TransactionStore, uploader utils.ProofUploader, notifier notify.Notifier, minWithdraw int64, adminRole string) *WalletService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &WalletService{
		users:         users,
		txs:           txs,
		uploader:      uploader,
		notifier:      notifier,
		admin:         adminGuard{users: users, role: adminRole},
		minWithdraw:   minWithdraw,
		uploadTimeout: proofUploadTimeout,
		now:           time.Now,
	}
}

// ProofInput is either a file to upload or the URL of an already uploaded proof.
type ProofInput struct {
	File *utils.Upload
	URL  string
}

type WithdrawAccount struct {
	Number string `json:"account_number"`
	Type   string `json:"account_type"`
	Name   string `json:"account_name"`
}

func (s *WalletService) Balance(ctx context.Context, uid string) (int64, error) {
	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return 0, err
	}
	return u.Coins, nil
}

func (s *WalletService) Ledger(ctx context.Context, uid string, limit int) ([]models.CoinLedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.users.ListLedger(ctx, uid, limit)
}

// RequestDeposit records a pending deposit once the proof is stored.
func (s *WalletService) RequestDeposit(ctx context.Context, uid string, amount int64, proof ProofInput) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, models.Invalid("amount", "Please enter a valid amount")
	}
	proofURL := strings.TrimSpace(proof.URL)
	if proof.File == nil && proofURL == "" {
		return nil, models.Invalid("proof", "Please upload payment proof")
	}
	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	if proof.File != nil {
		if s.uploader == nil {
			return nil, fmt.Errorf("proof upload: %w", models.ErrUnavailable)
		}
		uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
		proofURL, err = s.uploader.Upload(uploadCtx, utils.ProofKey(uid, proof.File.Filename), proof.File)
		if err != nil {
			log.Printf("❌ [WALLET] proof upload failed for %s: %v", uid, err)
			return nil, fmt.Errorf("proof upload: %w", err)
		}
	}

	t := &models.Transaction{
		ID:        uuid.NewString(),
		UserID:    uid,
		Type:      models.TransactionDeposit,
		Amount:    amount,
		Status:    models.TransactionPending,
		Proof:     proofURL,
		Timestamp: s.now(),
	}
	if err := s.txs.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	t.InGameName, t.InGameUID = u.InGameName, u.InGameUID

	log.Printf("💰 [WALLET] deposit request %s: %d coins from %s", t.ID, amount, uid)
	s.notifyAdmin(ctx, fmt.Sprintf("💰 New deposit request\nUser: %s (UID %s)\nAmount: %d coins\nProof: %s\nID: %s",
		displayName(u), u.InGameUID, amount, proofURL, t.ID))
	return t, nil
}

// RequestWithdraw records a pending withdrawal. Coins move only on approval.
func (s *WalletService) RequestWithdraw(ctx context.Context, uid string, amount int64, acct WithdrawAccount) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, models.Invalid("amount", "Please enter a valid amount")
	}
	if amount < s.minWithdraw {
		return nil, models.Invalid("amount", fmt.Sprintf("Minimum withdrawal is %d coins", s.minWithdraw))
	}
	acct.Number = strings.TrimSpace(acct.Number)
	acct.Type = strings.TrimSpace(acct.Type)
	acct.Name = strings.TrimSpace(acct.Name)
	if acct.Number == "" {
		return nil, models.Invalid("account_number", "Please enter your account number")
	}
	if acct.Type == "" {
		return nil, models.Invalid("account_type", "Please enter account type (EasyPaisa/JazzCash)")
	}
	if acct.Name == "" {
		return nil, models.Invalid("account_name", "Please enter account holder name")
	}

	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.Coins < amount {
		return nil, insufficientBalance(amount, u.Coins)
	}

	t := &models.Transaction{
		ID:            uuid.NewString(),
		UserID:        uid,
		Type:          models.TransactionWithdraw,
		Amount:        amount,
		Status:        models.TransactionPending,
		AccountNumber: acct.Number,
		AccountType:   acct.Type,
		AccountName:   acct.Name,
		Timestamp:     s.now(),
	}
	if err := s.txs.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	t.InGameName, t.InGameUID = u.InGameName, u.InGameUID

	log.Printf("🏧 [WALLET] withdraw request %s: %d coins by %s", t.ID, amount, uid)
	s.notifyAdmin(ctx, fmt.Sprintf("🏧 New withdrawal request\nUser: %s (UID %s)\nAmount: %d coins\nAccount: %s %s (%s)\nID: %s",
		displayName(u), u.InGameUID, amount, acct.Type, acct.Number, acct.Name, t.ID))
	return t, nil
}

// Approve settles a pending transaction. A withdrawal whose owner no longer
// holds enough coins is marked failed and ErrInsufficientCoins is returned
// together with the failed transaction.
func (s *WalletService) Approve(ctx context.Context, txID, adminUID, note string) (*models.Transaction, error) {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return nil, err
	}
	settledAt := s.now()
	t, err := s.txs.SettleTransaction(ctx, txID, func(t *models.Transaction, u *models.User) error {
		if t.Status.Terminal() {
			return models.ErrTransactionSettled
		}
		t.SettledBy = adminUID
		t.SettledAt = &settledAt
		t.AdminNote = strings.TrimSpace(note)

		switch t.Type {
		case models.TransactionDeposit:
			u.Coins += t.Amount
		case models.TransactionWithdraw:
			if u.Coins < t.Amount {
				t.Status = models.TransactionFailed
				if t.AdminNote == "" {
					t.AdminNote = "insufficient balance at approval"
				}
				return insufficientBalance(t.Amount, u.Coins)
			}
			u.Coins -= t.Amount
		default:
			return fmt.Errorf("unknown transaction type %q", t.Type)
		}
		t.Status = models.TransactionApproved
		return nil
	})
	if err != nil {
		log.Printf("❌ [WALLET] approve %s by %s: %v", txID, adminUID, err)
		return t, err
	}
	log.Printf("✅ [WALLET] %s %s approved by %s (%d coins)", t.Type, t.ID, adminUID, t.Amount)
	return t, nil
}

func (s *WalletService) Reject(ctx context.Context, txID, adminUID, note string) (*models.Transaction, error) {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return nil, err
	}
	settledAt := s.now()
	t, err := s.txs.SettleTransaction(ctx, txID, func(t *models.Transaction, _ *models.User) error {
		if t.Status.Terminal() {
			return models.ErrTransactionSettled
		}
		t.Status = models.TransactionRejected
		t.SettledBy = adminUID
		t.SettledAt = &settledAt
		t.AdminNote = strings.TrimSpace(note)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🚫 [WALLET] %s %s rejected by %s", t.Type, t.ID, adminUID)
	return t, nil
}

var (
	userHistoryStatuses  = []models.TransactionStatus{models.TransactionApproved, models.TransactionRejected, models.TransactionFailed}
	adminHistoryStatuses = []models.TransactionStatus{models.TransactionPending, models.TransactionApproved, models.TransactionRejected}
)

// ListTransactions returns the caller's settled history, or every request
// for admins. statuses overrides the default filter.
func (s *WalletService) ListTransactions(ctx context.Context, uid string, statuses []models.TransactionStatus) ([]models.Transaction, error) {
	isAdmin, err := s.admin.IsAdmin(ctx, uid)
	if err != nil {
		return nil, err
	}
	for _, st := range statuses {
		if !st.Valid() {
			return nil, models.Invalid("status", fmt.Sprintf("unknown status %q", st))
		}
	}

	f := repository.TransactionFilter{Statuses: statuses}
	if isAdmin {
		if len(f.Statuses) == 0 {
			f.Statuses = adminHistoryStatuses
		}
	} else {
		f.UserID = uid
		if len(f.Statuses) == 0 {
			f.Statuses = userHistoryStatuses
		}
	}
	return s.txs.ListTransactions(ctx, f)
}

func (s *WalletService) notifyAdmin(ctx context.Context, text string) {
	if err := s.notifier.NotifyAdmin(ctx, text); err != nil {
		log.Printf("⚠️  [WALLET] admin notification failed: %v", err)
	}
}

func insufficientBalance(need, have int64) error {
	return &models.InsufficientCoinsError{
		Need: need,
		Have: have,
		Msg:  fmt.Sprintf("You don't have enough coins. Current balance: %d coins", have),
	}
}

func displayName(u *models.User) string {
	if u.InGameName != "" {
		return u.InGameName
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
