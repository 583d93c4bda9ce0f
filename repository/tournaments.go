package repository

import (
	"context"
	"time"

	"tournament-booking-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TournamentFilter narrows ListTournaments. Zero values match everything.
type TournamentFilter struct {
	CategoryID string
	ActiveOnly bool
	BookedBy   string
}

func orderedSlots(db *gorm.DB) *gorm.DB {
	return db.Order("booked_at ASC").Order("slot_number ASC")
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.TournamentCategory, error) {
	var cats []models.TournamentCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*models.TournamentCategory, error) {
	var cat models.TournamentCategory
	if err := r.db.WithContext(ctx).First(&cat, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &cat, nil
}

func (r *Repository) CreateCategory(ctx context.Context, cat *models.TournamentCategory) error {
	err := r.db.WithContext(ctx).Create(cat).Error
	if _, dup := uniqueViolation(err); dup {
		return models.ErrAlreadyExists
	}
	return err
}

func (r *Repository) ListTournaments(ctx context.Context, f TournamentFilter) ([]models.Tournament, error) {
	q := r.db.WithContext(ctx).Preload("BookedSlots", orderedSlots)
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.BookedBy != "" {
		q = q.Where("id IN (?)", r.db.Model(&models.BookedSlot{}).Select("tournament_id").Where("user_id = ?", f.BookedBy))
	}
	var out []models.Tournament
	err := q.Order("start_time ASC").Find(&out).Error
	return out, err
}

func (r *Repository) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.db.WithContext(ctx).Preload("BookedSlots", orderedSlots).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *Repository) CreateTournament(ctx context.Context, t *models.Tournament) error {
	return r.db.WithContext(ctx).Omit("BookedSlots").Create(t).Error
}

func (r *Repository) SetTournamentActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ReleaseRoom stores the room credentials and the instant they were released.
func (r *Repository) ReleaseRoom(ctx context.Context, id, roomID, pass string, at time.Time) (*models.Tournament, error) {
	res := r.db.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Updates(map[string]interface{}{
		"room_id":         roomID,
		"pass":            pass,
		"room_updated_at": at,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return r.GetTournament(ctx, id)
}

// BookSlot locks the user and tournament rows, hands them to plan and
// persists the slot it returns together with the user's new balance.
func (r *Repository) BookSlot(
	ctx context.Context,
	tournamentID, uid string,
	plan func(t *models.Tournament, u *models.User) (*models.BookedSlot, error),
) (*models.BookedSlot, error) {
	var slot *models.BookedSlot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", uid).Error; err != nil {
			return notFound(err)
		}
		var t models.Tournament
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "id = ?", tournamentID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("tournament_id = ?", t.ID).Order("booked_at ASC").Find(&t.BookedSlots).Error; err != nil {
			return err
		}

		before := u.Coins
		s, err := plan(&t, &u)
		if err != nil {
			return err
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.TournamentID = t.ID
		s.UserID = u.ID
		if err := tx.Create(s).Error; err != nil {
			return slotConflict(err)
		}

		if err := tx.Model(&u).Updates(map[string]interface{}{
			"coins":        u.Coins,
			"in_game_name": u.InGameName,
			"in_game_uid":  u.InGameUID,
		}).Error; err != nil {
			return err
		}
		if delta := u.Coins - before; delta != 0 {
			if err := writeLedger(tx, u.ID, delta, models.LedgerSlotBooking, s.ID, u.Coins); err != nil {
				return err
			}
		}
		slot = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// PendingRoomReleases returns tournaments whose room details changed after the
// last broadcast.
func (r *Repository) PendingRoomReleases(ctx context.Context) ([]models.Tournament, error) {
	var out []models.Tournament
	err := r.db.WithContext(ctx).
		Where("(room_id <> '' OR pass <> '') AND room_updated_at IS NOT NULL").
		Where("room_notified_at IS NULL OR room_notified_at < room_updated_at").
		Order("room_updated_at ASC").
		Find(&out).Error
	return out, err
}

func (r *Repository) MarkRoomNotified(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Update("room_notified_at", at).Error
}

// RecordWinner credits a tournament win to a user holding a slot in it.
func (r *Repository) RecordWinner(ctx context.Context, tournamentID, uid string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.BookedSlot{}).
			Where("tournament_id = ? AND user_id = ?", tournamentID, uid).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return models.ErrNotFound
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", uid).Error; err != nil {
			return notFound(err)
		}
		u.WonTournaments++
		return tx.Model(&u).Update("won_tournaments", u.WonTournaments).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
