package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tournament-booking-system/models"
	"tournament-booking-system/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type TournamentService struct {
	store        TournamentStore
	admin        adminGuard
	exporter     SlotExporter
	defaultSlots int
	updatesLoc   *time.Location
	now          func() time.Time
}

func NewTournamentService(store TournamentStore, users UserStore, exporter SlotExporter, defaultSlots int, adminRole string, updatesLoc *time.Location) *TournamentService {
	if updatesLoc == nil {
		updatesLoc = time.Local
	}
	return &TournamentService{
		store:        store,
		admin:        adminGuard{users: users, role: adminRole},
		exporter:     exporter,
		defaultSlots: defaultSlots,
		updatesLoc:   updatesLoc,
		now:          time.Now,
	}
}

// TournamentDetail is a tournament as seen by one player.
type TournamentDetail struct {
	models.Tournament
	Capacity int                `json:"capacity"`
	MySlot   *models.BookedSlot `json:"my_slot,omitempty"`
}

type CategoryGroup struct {
	Category    models.TournamentCategory `json:"category"`
	Tournaments []models.Tournament       `json:"tournaments"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type TournamentInput struct {
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	EntryFee   int64     `json:"entry_fee"`
	PrizePool  string    `json:"prize_pool"`
	Slots      int       `json:"slots"`
	StartTime  time.Time `json:"start_time"`
}

func (s *TournamentService) ListCategories(ctx context.Context) ([]models.TournamentCategory, error) {
	return s.store.ListCategories(ctx)
}

func (s *TournamentService) CreateCategory(ctx context.Context, adminUID string, in CategoryInput) (*models.TournamentCategory, error) {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, models.Invalid("name", "Category name is required")
	}
	cat := &models.TournamentCategory{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if cat.Slug == "" {
		return nil, models.Invalid("name", "Category name must contain letters or digits")
	}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	log.Printf("✅ [CATALOG] category %q (%s) created by %s", cat.Name, cat.Slug, adminUID)
	return cat, nil
}

// ListActive returns bookable tournaments with their free slot counts.
func (s *TournamentService) ListActive(ctx context.Context) ([]models.Tournament, error) {
	ts, err := s.store.ListTournaments(ctx, repository.TournamentFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	s.fill(ts)
	return ts, nil
}

// Grouped returns every category with its active tournaments, categories
// without tournaments included.
func (s *TournamentService) Grouped(ctx context.Context) ([]CategoryGroup, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	ts, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	byCat := make(map[string][]models.Tournament, len(cats))
	for _, t := range ts {
		byCat[t.CategoryID] = append(byCat[t.CategoryID], t)
	}
	groups := make([]CategoryGroup, 0, len(cats))
	for _, c := range cats {
		list := byCat[c.ID]
		if list == nil {
			list = []models.Tournament{}
		}
		groups = append(groups, CategoryGroup{Category: c, Tournaments: list})
	}
	return groups, nil
}

func (s *TournamentService) ListByCategory(ctx context.Context, categorySlug string) (*CategoryGroup, error) {
	cat, err := s.store.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	ts, err := s.store.ListTournaments(ctx, repository.TournamentFilter{CategoryID: cat.ID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	s.fill(ts)
	if ts == nil {
		ts = []models.Tournament{}
	}
	return &CategoryGroup{Category: *cat, Tournaments: ts}, nil
}

// MyTournaments lists the tournaments uid holds a slot in.
func (s *TournamentService) MyTournaments(ctx context.Context, uid string) ([]models.Tournament, error) {
	ts, err := s.store.ListTournaments(ctx, repository.TournamentFilter{BookedBy: uid})
	if err != nil {
		return nil, err
	}
	s.fill(ts)
	return ts, nil
}

func (s *TournamentService) Get(ctx context.Context, id, uid string) (*TournamentDetail, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	t.FillAvailable(s.defaultSlots)
	d := &TournamentDetail{Tournament: *t, Capacity: t.Capacity(s.defaultSlots)}
	if slot := t.SlotOf(uid); slot != nil {
		cp := *slot
		d.MySlot = &cp
	}
	return d, nil
}

func (s *TournamentService) Create(ctx context.Context, adminUID string, in TournamentInput) (*models.Tournament, error) {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return nil, models.Invalid("name", "Tournament name is required")
	case in.EntryFee < 0:
		return nil, models.Invalid("entry_fee", "Entry fee must not be negative")
	case in.Slots < 0:
		return nil, models.Invalid("slots", "Slots must not be negative")
	case in.StartTime.IsZero():
		return nil, models.Invalid("start_time", "Start time is required")
	}
	t := &models.Tournament{
		ID:         uuid.NewString(),
		CategoryID: in.CategoryID,
		Name:       in.Name,
		EntryFee:   in.EntryFee,
		PrizePool:  strings.TrimSpace(in.PrizePool),
		Slots:      in.Slots,
		StartTime:  in.StartTime,
		IsActive:   true,
	}
	if err := s.store.CreateTournament(ctx, t); err != nil {
		return nil, err
	}
	t.FillAvailable(s.defaultSlots)
	log.Printf("✅ [CATALOG] tournament %q created by %s", t.Name, adminUID)
	return t, nil
}

func (s *TournamentService) SetActive(ctx context.Context, adminUID, id string, active bool) error {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return err
	}
	return s.store.SetTournamentActive(ctx, id, active)
}

// ReleaseRoom publishes the room id and password. updatedAt may be nil (now),
// a time, an RFC3339 or legacy string, or a {seconds, nanoseconds} object.
// Times in the future are clamped to now.
func (s *TournamentService) ReleaseRoom(ctx context.Context, adminUID, id, roomID, pass string, updatedAt any) (*models.Tournament, error) {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return nil, err
	}
	roomID, pass = strings.TrimSpace(roomID), strings.TrimSpace(pass)
	if roomID == "" && pass == "" {
		return nil, models.Invalid("room_id", "Room ID or password is required")
	}
	now := s.now()
	at := now
	if updatedAt != nil {
		parsed, ok := models.ParseUpdatedAt(updatedAt, s.updatesLoc)
		if !ok {
			return nil, models.Invalid("updated_at", fmt.Sprintf("unrecognized time %v", updatedAt))
		}
		at = parsed
	}
	// A release dated ahead of the clock could never be marked read.
	if at.After(now) {
		at = now
	}
	t, err := s.store.ReleaseRoom(ctx, id, roomID, pass, at)
	if err != nil {
		return nil, err
	}
	t.FillAvailable(s.defaultSlots)
	log.Printf("🔑 [CATALOG] room released for %s by %s at %s", t.ID, adminUID, at.Format(time.RFC3339))
	return t, nil
}

func (s *TournamentService) RecordWinner(ctx context.Context, adminUID, id, winnerUID string) (*models.User, error) {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return nil, err
	}
	u, err := s.store.RecordWinner(ctx, id, winnerUID)
	if err != nil {
		return nil, err
	}
	log.Printf("🏆 [CATALOG] %s won tournament %s (total %d)", winnerUID, id, u.WonTournaments)
	return u, nil
}

// ExportSlots appends the tournament's slot list to the admin spreadsheet.
func (s *TournamentService) ExportSlots(ctx context.Context, adminUID, id string) (int, error) {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return 0, err
	}
	if s.exporter == nil {
		return 0, fmt.Errorf("slot export: %w", models.ErrUnavailable)
	}
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return 0, err
	}
	n, err := s.exporter.ExportSlots(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("slot export: %w", err)
	}
	log.Printf("📄 [CATALOG] exported %d slots of %s", n, t.ID)
	return n, nil
}

func (s *TournamentService) fill(ts []models.Tournament) {
	for i := range ts {
		ts[i].FillAvailable(s.defaultSlots)
	}
}
