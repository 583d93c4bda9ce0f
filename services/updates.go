// services/updates.go
package services

import (
	"context"
	"log"
	"sort"
	"time"

	"tournament-booking-system/models"
	"tournament-booking-system/repository"
)

// UpdateWindow is how long a room release stays on the updates list.
const UpdateWindow = time.Hour

// UpdateView is one room release shown to a player who booked the tournament.
type UpdateView struct {
	TournamentID   string    `json:"tournament_id"`
	TournamentName string    `json:"tournament_name"`
	RoomID         string    `json:"room_id"`
	Pass           string    `json:"pass"`
	SlotNumber     int       `json:"slot_number"`
	StartTime      time.Time `json:"start_time"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FreshUpdates lists room releases of tournaments booked by uid that happened
// strictly after now minus UpdateWindow, newest first.
func FreshUpdates(tournaments []models.Tournament, uid string, now time.Time) []UpdateView {
	cutoff := now.Add(-UpdateWindow)
	var out []UpdateView
	for i := range tournaments {
		t := &tournaments[i]
		slot := t.SlotOf(uid)
		if slot == nil || !t.HasRoomDetails() || t.RoomUpdatedAt == nil {
			continue
		}
		if !t.RoomUpdatedAt.After(cutoff) {
			continue
		}
		out = append(out, UpdateView{
			TournamentID:   t.ID,
			TournamentName: t.Name,
			RoomID:         t.RoomID,
			Pass:           t.Pass,
			SlotNumber:     slot.SlotNumber,
			StartTime:      t.StartTime,
			UpdatedAt:      *t.RoomUpdatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// HasUnreadUpdates reports whether any fresh update is newer than lastReadAt.
// A user who never read updates has unread ones as soon as one is fresh.
func HasUnreadUpdates(tournaments []models.Tournament, uid string, lastReadAt *time.Time, now time.Time) bool {
	for _, u := range FreshUpdates(tournaments, uid, now) {
		if lastReadAt == nil || u.UpdatedAt.After(*lastReadAt) {
			return true
		}
	}
	return false
}

type UpdatesService struct {
	tournaments TournamentStore
	users       UserStore
	now         func() time.Time

	pollInterval time.Duration
}

func NewUpdatesService(tournaments TournamentStore, users UserStore) *UpdatesService {
	return &UpdatesService{
		tournaments:  tournaments,
		users:        users,
		now:          time.Now,
		pollInterval: 2 * time.Second,
	}
}

func (s *UpdatesService) bookedTournaments(ctx context.Context, uid string) ([]models.Tournament, error) {
	return s.tournaments.ListTournaments(ctx, repository.TournamentFilter{BookedBy: uid})
}

func (s *UpdatesService) List(ctx context.Context, uid string) ([]UpdateView, error) {
	ts, err := s.bookedTournaments(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := FreshUpdates(ts, uid, s.now())
	if out == nil {
		out = []UpdateView{}
	}
	return out, nil
}

func (s *UpdatesService) HasUnread(ctx context.Context, uid string) (bool, error) {
	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return false, err
	}
	ts, err := s.bookedTournaments(ctx, uid)
	if err != nil {
		return false, err
	}
	return HasUnreadUpdates(ts, uid, u.LastUpdatesReadAt, s.now()), nil
}

func (s *UpdatesService) MarkRead(ctx context.Context, uid string) (time.Time, error) {
	at := s.now()
	if err := s.users.MarkUpdatesRead(ctx, uid, at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// WatchUnread polls the unread flag and calls emit with the first value and
// then on every change. It returns when ctx is done or emit fails.
func (s *UpdatesService) WatchUnread(ctx context.Context, uid string, emit func(unread bool) error) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var (
		last  bool
		first = true
	)
	for {
		unread, err := s.HasUnread(ctx, uid)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[UPDATES_SSE] unread check failed for %s: %v", uid, err)
		} else if first || unread != last {
			if err := emit(unread); err != nil {
				return err
			}
			first, last = false, unread
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
