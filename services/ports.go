// services/ports.go
package services

import (
	"context"
	"errors"
	"time"

	"tournament-booking-system/models"
	"tournament-booking-system/repository"
)

// BookingPlan validates a booking against the locked tournament and user and
// returns the slot to insert. It may change the user's balance and identity.
type BookingPlan = func(t *models.Tournament, u *models.User) (*models.BookedSlot, error)

// SettleFunc moves a locked pending transaction to its final state.
type SettleFunc = func(t *models.Transaction, u *models.User) error

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateGameIdentity(ctx context.Context, uid, inGameName, inGameUID string) (*models.User, error)
	MarkUpdatesRead(ctx context.Context, uid string, at time.Time) error
	MarkTourSeen(ctx context.Context, uid string) error
	TopUsersByCoins(ctx context.Context, limit int) ([]models.User, error)
	CountBookings(ctx context.Context, uid string) (int64, error)
	ListLedger(ctx context.Context, uid string, limit int) ([]models.CoinLedgerEntry, error)
}

type TournamentStore interface {
	ListCategories(ctx context.Context) ([]models.TournamentCategory, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.TournamentCategory, error)
	CreateCategory(ctx context.Context, cat *models.TournamentCategory) error
	ListTournaments(ctx context.Context, f repository.TournamentFilter) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	CreateTournament(ctx context.Context, t *models.Tournament) error
	SetTournamentActive(ctx context.Context, id string, active bool) error
	ReleaseRoom(ctx context.Context, id, roomID, pass string, at time.Time) (*models.Tournament, error)
	BookSlot(ctx context.Context, tournamentID, uid string, plan BookingPlan) (*models.BookedSlot, error)
	PendingRoomReleases(ctx context.Context) ([]models.Tournament, error)
	MarkRoomNotified(ctx context.Context, id string, at time.Time) error
	RecordWinner(ctx context.Context, tournamentID, uid string) (*models.User, error)
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	SettleTransaction(ctx context.Context, id string, settle SettleFunc) (*models.Transaction, error)
	ListTransactions(ctx context.Context, f repository.TransactionFilter) ([]models.Transaction, error)
}

type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) error
}

// Store is everything the gorm repository provides.
type Store interface {
	UserStore
	TournamentStore
	TransactionStore
	FeedbackStore
}

var _ Store = (*repository.Repository)(nil)

// LeaderboardCache keeps the last computed leaderboard.
type LeaderboardCache interface {
	GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, bool, error)
	SetLeaderboard(ctx context.Context, entries []models.LeaderboardEntry) error
}

// SlotExporter writes a tournament's slot list somewhere admins can read it.
type SlotExporter interface {
	ExportSlots(ctx context.Context, t *models.Tournament) (int, error)
}

// adminGuard resolves the admin role from the user record.
type adminGuard struct {
	users UserStore
	role  string
}

func (g adminGuard) IsAdmin(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	u, err := g.users.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.HasRole(g.role), nil
}

func (g adminGuard) require(ctx context.Context, uid string) error {
	ok, err := g.IsAdmin(ctx, uid)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrForbidden
	}
	return nil
}
