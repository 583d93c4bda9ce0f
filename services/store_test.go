package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"tournament-booking-system/models"
	"tournament-booking-system/repository"
	"tournament-booking-system/utils"

	"github.com/google/uuid"
)

// memStore is an in-memory Store. A single mutex stands in for the row locks
// the postgres repository takes.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*models.User
	categories  map[string]*models.TournamentCategory
	tournaments map[string]*models.Tournament
	txs         map[string]*models.Transaction
	ledger      []models.CoinLedgerEntry
	feedback    []models.Feedback
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*models.User{},
		categories:  map[string]*models.TournamentCategory{},
		tournaments: map[string]*models.Tournament{},
		txs:         map[string]*models.Transaction{},
	}
}

func (m *memStore) addUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := u
	m.users[u.ID] = &cp
}

func (m *memStore) addTournament(t models.Tournament) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copyTournament(&t)
	m.tournaments[t.ID] = &cp
}

func (m *memStore) user(id string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

func (m *memStore) tournament(id string) models.Tournament {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyTournament(m.tournaments[id])
}

func (m *memStore) ledgerFor(uid string) []models.CoinLedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CoinLedgerEntry
	for _, e := range m.ledger {
		if e.UserID == uid {
			out = append(out, e)
		}
	}
	return out
}

func (m *memStore) txCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

func copyTournament(t *models.Tournament) models.Tournament {
	cp := *t
	cp.BookedSlots = append([]models.BookedSlot(nil), t.BookedSlots...)
	return cp
}

func (m *memStore) writeLedger(uid string, amount int64, reason models.LedgerReason, ref string, after int64) {
	m.ledger = append(m.ledger, models.CoinLedgerEntry{
		ID: uuid.NewString(), UserID: uid, Amount: amount, Reason: reason,
		ReferenceID: ref, BalanceAfter: after, CreatedAt: time.Now(),
	})
}

// users

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return models.ErrAlreadyExists
	}
	cp := *u
	cp.CreatedAt = time.Now()
	m.users[u.ID] = &cp
	if u.Coins > 0 {
		m.writeLedger(u.ID, u.Coins, models.LedgerStartingGrant, "", u.Coins)
	}
	return nil
}

func (m *memStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdateGameIdentity(_ context.Context, uid, name, gameUID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.InGameName, u.InGameUID = name, gameUID
	for _, t := range m.tournaments {
		for i := range t.BookedSlots {
			if t.BookedSlots[i].UserID == uid {
				t.BookedSlots[i].InGameName = name
				t.BookedSlots[i].InGameUID = gameUID
			}
		}
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) MarkUpdatesRead(_ context.Context, uid string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return models.ErrNotFound
	}
	u.LastUpdatesReadAt = &at
	return nil
}

func (m *memStore) MarkTourSeen(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return models.ErrNotFound
	}
	u.HasSeenTour = true
	return nil
}

func (m *memStore) TopUsersByCoins(_ context.Context, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Coins != out[j].Coins {
			return out[i].Coins > out[j].Coins
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CountBookings(_ context.Context, uid string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.tournaments {
		if t.IsBookedBy(uid) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListLedger(_ context.Context, uid string, limit int) ([]models.CoinLedgerEntry, error) {
	entries := m.ledgerFor(uid)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// tournaments

func (m *memStore) ListCategories(context.Context) ([]models.TournamentCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TournamentCategory, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetCategoryBySlug(_ context.Context, slug string) (*models.TournamentCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) CreateCategory(_ context.Context, cat *models.TournamentCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == cat.Slug {
			return models.ErrAlreadyExists
		}
	}
	cp := *cat
	m.categories[cat.ID] = &cp
	return nil
}

func (m *memStore) ListTournaments(_ context.Context, f repository.TournamentFilter) ([]models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tournament
	for _, t := range m.tournaments {
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		if f.ActiveOnly && !t.IsActive {
			continue
		}
		if f.BookedBy != "" && !t.IsBookedBy(f.BookedBy) {
			continue
		}
		out = append(out, copyTournament(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memStore) GetTournament(_ context.Context, id string) (*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := copyTournament(t)
	return &cp, nil
}

func (m *memStore) CreateTournament(_ context.Context, t *models.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copyTournament(t)
	m.tournaments[t.ID] = &cp
	return nil
}

func (m *memStore) SetTournamentActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[id]
	if !ok {
		return models.ErrNotFound
	}
	t.IsActive = active
	return nil
}

func (m *memStore) ReleaseRoom(_ context.Context, id, roomID, pass string, at time.Time) (*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	t.RoomID, t.Pass, t.RoomUpdatedAt = roomID, pass, &at
	cp := copyTournament(t)
	return &cp, nil
}

func (m *memStore) BookSlot(_ context.Context, tournamentID, uid string, plan BookingPlan) (*models.BookedSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	storedT, ok := m.tournaments[tournamentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := *stored
	t := copyTournament(storedT)

	slot, err := plan(&t, &u)
	if err != nil {
		return nil, err
	}
	// unique indexes
	for _, s := range storedT.BookedSlots {
		if s.SlotNumber == slot.SlotNumber {
			return nil, models.ErrSlotTaken
		}
		if s.UserID == uid {
			return nil, models.ErrAlreadyBooked
		}
	}
	slot.ID = uuid.NewString()
	slot.TournamentID, slot.UserID = tournamentID, uid
	storedT.BookedSlots = append(storedT.BookedSlots, *slot)
	if delta := u.Coins - stored.Coins; delta != 0 {
		m.writeLedger(uid, delta, models.LedgerSlotBooking, slot.ID, u.Coins)
	}
	*stored = u
	return slot, nil
}

func (m *memStore) PendingRoomReleases(context.Context) ([]models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tournament
	for _, t := range m.tournaments {
		if !t.HasRoomDetails() || t.RoomUpdatedAt == nil {
			continue
		}
		if t.RoomNotifiedAt == nil || t.RoomNotifiedAt.Before(*t.RoomUpdatedAt) {
			out = append(out, copyTournament(t))
		}
	}
	return out, nil
}

func (m *memStore) MarkRoomNotified(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tournaments[id]; ok {
		t.RoomNotifiedAt = &at
	}
	return nil
}

func (m *memStore) RecordWinner(_ context.Context, tournamentID, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[tournamentID]
	if !ok || !t.IsBookedBy(uid) {
		return nil, models.ErrNotFound
	}
	u := m.users[uid]
	u.WonTournaments++
	cp := *u
	return &cp, nil
}

// transactions

func (m *memStore) CreateTransaction(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.txs[t.ID] = &cp
	return nil
}

func (m *memStore) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) SettleTransaction(_ context.Context, id string, settle SettleFunc) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	storedT, ok := m.txs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	storedU, ok := m.users[storedT.UserID]
	if !ok {
		return nil, models.ErrNotFound
	}
	t, u := *storedT, *storedU
	settleErr := settle(&t, &u)
	if settleErr != nil && t.Status == storedT.Status {
		return nil, settleErr
	}
	if delta := u.Coins - storedU.Coins; delta != 0 {
		reason := models.LedgerDeposit
		if t.Type == models.TransactionWithdraw {
			reason = models.LedgerWithdraw
		}
		m.writeLedger(u.ID, delta, reason, t.ID, u.Coins)
	}
	*storedT, *storedU = t, u
	t.InGameName, t.InGameUID = u.InGameName, u.InGameUID
	return &t, settleErr
}

func (m *memStore) ListTransactions(_ context.Context, f repository.TransactionFilter) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.txs {
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, s := range f.Statuses {
				match = match || s == t.Status
			}
			if !match {
				continue
			}
		}
		cp := *t
		if u, ok := m.users[t.UserID]; ok {
			cp.InGameName, cp.InGameUID = u.InGameName, u.InGameUID
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *memStore) CreateFeedback(_ context.Context, f *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, *f)
	return nil
}

// collaborators

type recordingNotifier struct {
	mu        sync.Mutex
	admin     []string
	broadcast []string
	err       error
}

func (n *recordingNotifier) NotifyAdmin(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.admin = append(n.admin, text)
	return n.err
}

func (n *recordingNotifier) Broadcast(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcast = append(n.broadcast, text)
	return n.err
}

func (n *recordingNotifier) adminMessages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.admin...)
}

type fakeUploader struct {
	url   string
	err   error
	block bool
	keys  []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, _ *utils.Upload) (string, error) {
	f.keys = append(f.keys, key)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type memCache struct {
	mu      sync.Mutex
	entries []models.LeaderboardEntry
	ok      bool
	sets    int
	setCh   chan struct{}
}

func (c *memCache) GetLeaderboard(context.Context) ([]models.LeaderboardEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries, c.ok, nil
}

func (c *memCache) SetLeaderboard(_ context.Context, entries []models.LeaderboardEntry) error {
	c.mu.Lock()
	c.entries, c.ok = entries, true
	c.sets++
	ch := c.setCh
	c.mu.Unlock()
	if ch != nil {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}
