package repository

import (
	"context"
	"time"

	"tournament-booking-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateUser inserts a new profile. A non-zero starting balance is recorded in
// the coin ledger in the same transaction.
func (r *Repository) CreateUser(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if u.Coins > 0 {
			return writeLedger(tx, u.ID, u.Coins, models.LedgerStartingGrant, "", u.Coins)
		}
		return nil
	})
	if _, dup := uniqueViolation(err); dup {
		return models.ErrAlreadyExists
	}
	return err
}

func (r *Repository) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", uid).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdateGameIdentity changes the in-game name and uid on the profile and on
// every slot the user holds.
func (r *Repository) UpdateGameIdentity(ctx context.Context, uid, inGameName, inGameUID string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", uid).Error; err != nil {
			return notFound(err)
		}
		u.InGameName = inGameName
		u.InGameUID = inGameUID
		if err := tx.Model(&u).Updates(map[string]interface{}{
			"in_game_name": inGameName,
			"in_game_uid":  inGameUID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.BookedSlot{}).
			Where("user_id = ?", uid).
			Updates(map[string]interface{}{
				"in_game_name": inGameName,
				"in_game_uid":  inGameUID,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) MarkUpdatesRead(ctx context.Context, uid string, at time.Time) error {
	return r.updateUserColumn(ctx, uid, "last_updates_read_at", at)
}

func (r *Repository) MarkTourSeen(ctx context.Context, uid string) error {
	return r.updateUserColumn(ctx, uid, "has_seen_tour", true)
}

func (r *Repository) updateUserColumn(ctx context.Context, uid, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// TopUsersByCoins returns the richest users, ties broken by won tournaments.
func (r *Repository) TopUsersByCoins(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("coins DESC").
		Order("won_tournaments DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *Repository) CountBookings(ctx context.Context, uid string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BookedSlot{}).Where("user_id = ?", uid).Count(&n).Error
	return n, err
}

func (r *Repository) ListLedger(ctx context.Context, uid string, limit int) ([]models.CoinLedgerEntry, error) {
	var entries []models.CoinLedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func writeLedger(tx *gorm.DB, uid string, amount int64, reason models.LedgerReason, ref string, balanceAfter int64) error {
	return tx.Create(&models.CoinLedgerEntry{
		ID:           uuid.NewString(),
		UserID:       uid,
		Amount:       amount,
		Reason:       reason,
		ReferenceID:  ref,
		BalanceAfter: balanceAfter,
	}).Error
}
