// workers/room_release_worker.go
package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"tournament-booking-system/models"
	"tournament-booking-system/notify"
)

// RoomReleaseStore finds tournaments whose room details changed since the last
// broadcast.
type RoomReleaseStore interface {
	PendingRoomReleases(ctx context.Context) ([]models.Tournament, error)
	MarkRoomNotified(ctx context.Context, id string, at time.Time) error
}

type RoomReleaseNotifier struct {
	store    RoomReleaseStore
	notifier notify.Notifier
	now      func() time.Time
}

func NewRoomReleaseNotifier(store RoomReleaseStore, notifier notify.Notifier) *RoomReleaseNotifier {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &RoomReleaseNotifier{store: store, notifier: notifier, now: time.Now}
}

// RoomReleaseMessage is the channel post for a released room.
func RoomReleaseMessage(tournamentName string) string {
	return fmt.Sprintf("Update for %s: Room ID and pass have been released! Check Updates.", tournamentName)
}

// RunOnce broadcasts every pending release and returns how many were sent.
// A tournament whose broadcast fails stays pending for the next round.
func (w *RoomReleaseNotifier) RunOnce(ctx context.Context) (int, error) {
	pending, err := w.store.PendingRoomReleases(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, t := range pending {
		if err := w.notifier.Broadcast(ctx, RoomReleaseMessage(t.Name)); err != nil {
			log.Printf("❌ [ROOM_RELEASE] broadcast for %s failed: %v", t.ID, err)
			continue
		}
		// Stamping the release time itself keeps a later clock from re-queuing it.
		at := w.now()
		if t.RoomUpdatedAt != nil {
			at = *t.RoomUpdatedAt
		}
		if err := w.store.MarkRoomNotified(ctx, t.ID, at); err != nil {
			log.Printf("❌ [ROOM_RELEASE] failed to mark %s notified: %v", t.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// PollRoomReleases runs RunOnce every pollInterval until ctx is done.
func PollRoomReleases(ctx context.Context, w *RoomReleaseNotifier, pollInterval time.Duration) {
	log.Printf("Starting room release polling (every %s)...", pollInterval)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Room release polling stopped.")
			return
		case <-ticker.C:
			n, err := w.RunOnce(ctx)
			if err != nil {
				log.Printf("❌ Error polling room releases: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("📢 Broadcast %d room release(s).", n)
			}
		}
	}
}
