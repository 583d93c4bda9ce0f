package models

import (
	"time"
)

const DefaultSlotCapacity = 50

const SlotStatusConfirmed = "confirmed"

// TournamentCategory groups tournaments on the home screen (e.g. "Solo", "Squad").
type TournamentCategory struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Tournament is a bookable match with numbered slots.
// RoomUpdatedAt is the instant the room id / password were last released; it
// is kept apart from UpdatedAt so that slot bookings do not look like updates.
type Tournament struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	CategoryID     string     `json:"category_id" gorm:"index"`
	Name           string     `json:"name" gorm:"not null"`
	EntryFee       int64      `json:"entry_fee" gorm:"not null;default:0;check:entry_fee >= 0"`
	PrizePool      string     `json:"prize_pool"`
	Slots          int        `json:"slots" gorm:"default:0"`
	StartTime      time.Time  `json:"start_time"`
	IsActive       bool       `json:"is_active" gorm:"default:true;index"`
	RoomID         string     `json:"room_id,omitempty"`
	Pass           string     `json:"pass,omitempty"`
	RoomUpdatedAt  *time.Time `json:"room_updated_at,omitempty"`
	RoomNotifiedAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	BookedSlots []BookedSlot `json:"booked_slots" gorm:"foreignKey:TournamentID"`

	// Calculated fields (not stored in DB)
	AvailableSlots int `json:"available_slots" gorm:"-"`
}

// BookedSlot is one reservation in a tournament. The unique indexes keep a slot
// number and a user to a single row per tournament.
type BookedSlot struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	TournamentID string    `json:"tournament_id" gorm:"not null;uniqueIndex:idx_slot_number;uniqueIndex:idx_slot_user"`
	SlotNumber   int       `json:"slot_number" gorm:"not null;uniqueIndex:idx_slot_number"`
	UserID       string    `json:"uid" gorm:"not null;uniqueIndex:idx_slot_user;index"`
	InGameName   string    `json:"in_game_name"`
	InGameUID    string    `json:"in_game_uid"`
	Status       string    `json:"status" gorm:"default:'confirmed'"`
	BookedAt     time.Time `json:"booked_at"`
}

// Capacity returns the configured slot count, falling back to def (or
// DefaultSlotCapacity) when the tournament has none.
func (t *Tournament) Capacity(def int) int {
	if t.Slots > 0 {
		return t.Slots
	}
	if def > 0 {
		return def
	}
	return DefaultSlotCapacity
}

// SlotOf returns the slot held by uid, or nil.
func (t *Tournament) SlotOf(uid string) *BookedSlot {
	for i := range t.BookedSlots {
		if t.BookedSlots[i].UserID == uid {
			return &t.BookedSlots[i]
		}
	}
	return nil
}

func (t *Tournament) IsBookedBy(uid string) bool {
	return t.SlotOf(uid) != nil
}

func (t *Tournament) SlotTaken(slotNumber int) bool {
	for _, s := range t.BookedSlots {
		if s.SlotNumber == slotNumber {
			return true
		}
	}
	return false
}

// HasRoomDetails reports whether a room id or password has been released.
func (t *Tournament) HasRoomDetails() bool {
	return t.RoomID != "" || t.Pass != ""
}

// FillAvailable sets AvailableSlots from the capacity and the loaded slots.
func (t *Tournament) FillAvailable(def int) {
	n := t.Capacity(def) - len(t.BookedSlots)
	if n < 0 {
		n = 0
	}
	t.AvailableSlots = n
}
