package repository

import (
	"context"

	"tournament-booking-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionFilter struct {
	UserID   string
	Statuses []models.TransactionStatus
}

func (r *Repository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// SettleTransaction locks the transaction and its owner and lets settle move
// the status and balance. When settle fails without touching the status the
// whole change is rolled back; when it fails after moving the status (e.g. a
// withdrawal marked failed) the status is committed and the error returned.
func (r *Repository) SettleTransaction(
	ctx context.Context,
	id string,
	settle func(t *models.Transaction, u *models.User) error,
) (*models.Transaction, error) {
	var (
		t         models.Transaction
		settleErr error
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", t.UserID).Error; err != nil {
			return notFound(err)
		}

		status, coins := t.Status, u.Coins
		settleErr = settle(&t, &u)
		if settleErr != nil && t.Status == status {
			return settleErr
		}

		if err := tx.Model(&t).Updates(map[string]interface{}{
			"status":     t.Status,
			"admin_note": t.AdminNote,
			"settled_by": t.SettledBy,
			"settled_at": t.SettledAt,
		}).Error; err != nil {
			return err
		}
		if delta := u.Coins - coins; delta != 0 {
			if err := tx.Model(&u).Update("coins", u.Coins).Error; err != nil {
				return err
			}
			reason := models.LedgerDeposit
			if t.Type == models.TransactionWithdraw {
				reason = models.LedgerWithdraw
			}
			if err := writeLedger(tx, u.ID, delta, reason, t.ID, u.Coins); err != nil {
				return err
			}
		}
		t.InGameName, t.InGameUID = u.InGameName, u.InGameUID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, settleErr
}

// ListTransactions returns matching transactions newest first, each carrying
// the owner's in-game identity.
func (r *Repository) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	var txs []models.Transaction
	if err := q.Order("timestamp DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return txs, nil
	}

	seen := make(map[string]struct{}, len(txs))
	ids := make([]string, 0, len(txs))
	for _, t := range txs {
		if _, ok := seen[t.UserID]; !ok {
			seen[t.UserID] = struct{}{}
			ids = append(ids, t.UserID)
		}
	}
	var owners []models.User
	if err := r.db.WithContext(ctx).Select("id", "in_game_name", "in_game_uid").Where("id IN ?", ids).Find(&owners).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(owners))
	for _, u := range owners {
		byID[u.ID] = u
	}
	for i := range txs {
		if u, ok := byID[txs[i].UserID]; ok {
			txs[i].InGameName = u.InGameName
			txs[i].InGameUID = u.InGameUID
		}
	}
	return txs, nil
}

func (r *Repository) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}
