package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"tournament-booking-system/models"
)

type fakeReleases struct {
	pending  []models.Tournament
	notified map[string]time.Time
	err      error
}

func (f *fakeReleases) PendingRoomReleases(context.Context) ([]models.Tournament, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Tournament
	for _, t := range f.pending {
		if _, ok := f.notified[t.ID]; !ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeReleases) MarkRoomNotified(_ context.Context, id string, at time.Time) error {
	f.notified[id] = at
	return nil
}

type channel struct {
	posts  []string
	failOn string
}

func (c *channel) NotifyAdmin(context.Context, string) error { return nil }

func (c *channel) Broadcast(_ context.Context, text string) error {
	if c.failOn != "" && text == RoomReleaseMessage(c.failOn) {
		return errors.New("telegram down")
	}
	c.posts = append(c.posts, text)
	return nil
}

func TestRunOnceBroadcastsAndMarks(t *testing.T) {
	store := &fakeReleases{
		pending: []models.Tournament{
			{ID: "t1", Name: "Friday Squad"},
			{ID: "t2", Name: "Solo Cup"},
		},
		notified: map[string]time.Time{},
	}
	ch := &channel{failOn: "Solo Cup"}
	w := NewRoomReleaseNotifier(store, ch)
	at := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return at }

	n, err := w.RunOnce(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("RunOnce = %d, %v, want 1", n, err)
	}
	want := "Update for Friday Squad: Room ID and pass have been released! Check Updates."
	if len(ch.posts) != 1 || ch.posts[0] != want {
		t.Fatalf("posts = %q", ch.posts)
	}
	if got, ok := store.notified["t1"]; !ok || !got.Equal(at) {
		t.Fatalf("t1 not marked: %v", store.notified)
	}
	if _, ok := store.notified["t2"]; ok {
		t.Fatalf("failed broadcast must stay pending")
	}

	ch.failOn = ""
	if n, _ := w.RunOnce(context.Background()); n != 1 {
		t.Fatalf("retry sent %d, want 1", n)
	}
	if n, _ := w.RunOnce(context.Background()); n != 0 {
		t.Fatalf("third round sent %d, want 0", n)
	}
}

// releaseTable applies the same pending predicate as the repository:
// notified_at is unset or older than room_updated_at.
type releaseTable struct {
	rows map[string]*models.Tournament
}

func (r *releaseTable) PendingRoomReleases(context.Context) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range r.rows {
		if !t.HasRoomDetails() || t.RoomUpdatedAt == nil {
			continue
		}
		if t.RoomNotifiedAt == nil || t.RoomNotifiedAt.Before(*t.RoomUpdatedAt) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *releaseTable) MarkRoomNotified(_ context.Context, id string, at time.Time) error {
	r.rows[id].RoomNotifiedAt = &at
	return nil
}

func TestRunOnceFutureDatedReleaseBroadcastsOnce(t *testing.T) {
	start := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	releasedAt := start.Add(30 * time.Minute)
	table := &releaseTable{rows: map[string]*models.Tournament{
		"t1": {ID: "t1", Name: "Friday Squad", RoomID: "123", Pass: "pw", RoomUpdatedAt: &releasedAt},
	}}
	ch := &channel{}
	w := NewRoomReleaseNotifier(table, ch)

	for i := 0; i < 5; i++ {
		now := start.Add(time.Duration(i) * 10 * time.Second)
		w.now = func() time.Time { return now }
		if _, err := w.RunOnce(context.Background()); err != nil {
			t.Fatalf("RunOnce #%d: %v", i, err)
		}
	}
	if len(ch.posts) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(ch.posts))
	}
	if got := table.rows["t1"].RoomNotifiedAt; got == nil || !got.Equal(releasedAt) {
		t.Fatalf("room_notified_at = %v, want %v", got, releasedAt)
	}

	// a second release is picked up again
	later := releasedAt.Add(time.Hour)
	table.rows["t1"].RoomUpdatedAt = &later
	if n, _ := w.RunOnce(context.Background()); n != 1 {
		t.Fatalf("re-release sent %d, want 1", n)
	}
}

func TestRunOnceStoreError(t *testing.T) {
	w := NewRoomReleaseNotifier(&fakeReleases{err: errors.New("db down")}, nil)
	if _, err := w.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestPollRoomReleasesStopsWithContext(t *testing.T) {
	w := NewRoomReleaseNotifier(&fakeReleases{notified: map[string]time.Time{}}, &channel{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		PollRoomReleases(ctx, w, time.Millisecond)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop after cancel")
	}
}
