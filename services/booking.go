// services/booking.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tournament-booking-system/models"
)

type BookingService struct {
	store        TournamentStore
	defaultSlots int
	now          func() time.Time
}

func NewBookingService(store TournamentStore, defaultSlots int) *BookingService {
	return &BookingService{store: store, defaultSlots: defaultSlots, now: time.Now}
}

type BookingRequest struct {
	TournamentID string `json:"-"`
	UserID       string `json:"-"`
	SlotNumber   int    `json:"slot_number"`
	InGameName   string `json:"in_game_name"`
	InGameUID    string `json:"in_game_uid"`
}

// BookSlot reserves a slot and charges the entry fee atomically.
func (s *BookingService) BookSlot(ctx context.Context, req BookingRequest) (*models.BookedSlot, error) {
	req.InGameName = strings.TrimSpace(req.InGameName)
	req.InGameUID = strings.TrimSpace(req.InGameUID)
	if req.InGameName == "" {
		return nil, models.Invalid("in_game_name", "Please enter your In-Game Name")
	}
	if req.InGameUID == "" {
		return nil, models.Invalid("in_game_uid", "Please enter your UID")
	}

	bookedAt := s.now()
	slot, err := s.store.BookSlot(ctx, req.TournamentID, req.UserID, func(t *models.Tournament, u *models.User) (*models.BookedSlot, error) {
		return planBooking(t, u, req, s.defaultSlots, bookedAt)
	})
	if err != nil {
		log.Printf("❌ [BOOKING] user=%s tournament=%s slot=%d: %v", req.UserID, req.TournamentID, req.SlotNumber, err)
		return nil, err
	}

	log.Printf("✅ [BOOKING] user=%s booked slot %d in tournament %s", req.UserID, slot.SlotNumber, req.TournamentID)
	return slot, nil
}

// planBooking checks a booking against locked state and applies it to u.
// The order of checks decides which error a conflicting request sees.
func planBooking(t *models.Tournament, u *models.User, req BookingRequest, defaultSlots int, now time.Time) (*models.BookedSlot, error) {
	if !t.IsActive {
		return nil, models.ErrTournamentClosed
	}
	capacity := t.Capacity(defaultSlots)
	if req.SlotNumber < 1 || req.SlotNumber > capacity {
		return nil, models.Invalid("slot_number", fmt.Sprintf("Please choose a slot between 1 and %d", capacity))
	}
	if t.IsBookedBy(u.ID) {
		return nil, models.ErrAlreadyBooked
	}
	if u.Coins < t.EntryFee {
		return nil, &models.InsufficientCoinsError{
			Need: t.EntryFee,
			Have: u.Coins,
			Msg:  fmt.Sprintf("Insufficient coins! You need %d coins, but you have %d.", t.EntryFee, u.Coins),
		}
	}
	if t.SlotTaken(req.SlotNumber) {
		return nil, models.ErrSlotTaken
	}

	u.Coins -= t.EntryFee
	u.InGameName = req.InGameName
	u.InGameUID = req.InGameUID

	slot := models.BookedSlot{
		TournamentID: t.ID,
		SlotNumber:   req.SlotNumber,
		UserID:       u.ID,
		InGameName:   req.InGameName,
		InGameUID:    req.InGameUID,
		Status:       models.SlotStatusConfirmed,
		BookedAt:     now,
	}
	return &slot, nil
}
