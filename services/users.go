// services/users.go
package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tournament-booking-system/models"
)

var (
	emailPattern   = regexp.MustCompile(`\S+@\S+\.\S+`)
	numericPattern = regexp.MustCompile(`^\d+$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10,15}$`)
)

type ProfileService struct {
	users         UserStore
	admin         adminGuard
	startingCoins int64
	legacyLoc     *time.Location
}

// NewProfileService reads legacy import timestamps without a zone in legacyLoc.
func NewProfileService(users UserStore, startingCoins int64, adminRole string, legacyLoc *time.Location) *ProfileService {
	return &ProfileService{
		users:         users,
		admin:         adminGuard{users: users, role: adminRole},
		startingCoins: startingCoins,
		legacyLoc:     legacyLoc,
	}
}

type RegisterInput struct {
	UID         string `json:"-"`
	Email       string `json:"email"`
	InGameName  string `json:"in_game_name"`
	InGameUID   string `json:"in_game_uid"`
	PhoneNumber string `json:"phone_number"`
}

type ProfileView struct {
	*models.User
	JoinedTournaments int64 `json:"joined_tournaments"`
}

// Register creates the profile for an identity that already exists at the
// auth service.
func (s *ProfileService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.InGameName = strings.TrimSpace(in.InGameName)
	in.InGameUID = strings.TrimSpace(in.InGameUID)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if in.UID == "" || in.Email == "" || in.InGameName == "" || in.InGameUID == "" || in.PhoneNumber == "" {
		return nil, models.Invalid("", "All fields are required.")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, models.Invalid("email", "Please enter a valid email address.")
	}
	if !numericPattern.MatchString(in.InGameUID) {
		return nil, models.Invalid("in_game_uid", "In-Game UID must be numeric.")
	}
	if !phonePattern.MatchString(in.PhoneNumber) {
		return nil, models.Invalid("phone_number", "Please enter a valid phone number.")
	}

	u := &models.User{
		ID:          in.UID,
		Email:       strings.ToLower(in.Email),
		InGameName:  in.InGameName,
		InGameUID:   in.InGameUID,
		PhoneNumber: in.PhoneNumber,
		Coins:       s.startingCoins,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	log.Printf("👤 [PROFILE] registered %s (%s) with %d coins", u.ID, u.InGameName, u.Coins)
	return u, nil
}

func (s *ProfileService) Get(ctx context.Context, uid string) (*ProfileView, error) {
	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	joined, err := s.users.CountBookings(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: u, JoinedTournaments: joined}, nil
}

// UpdateGameIdentity changes the in-game name and uid everywhere the user
// appears, including slots already booked.
func (s *ProfileService) UpdateGameIdentity(ctx context.Context, uid, inGameName, inGameUID string) (*models.User, error) {
	inGameName = strings.TrimSpace(inGameName)
	inGameUID = strings.TrimSpace(inGameUID)
	if inGameName == "" {
		return nil, models.Invalid("in_game_name", "Please enter your In-Game Name")
	}
	if inGameUID == "" {
		return nil, models.Invalid("in_game_uid", "Please enter your UID")
	}
	if !numericPattern.MatchString(inGameUID) {
		return nil, models.Invalid("in_game_uid", "In-Game UID must be numeric.")
	}
	return s.users.UpdateGameIdentity(ctx, uid, inGameName, inGameUID)
}

func (s *ProfileService) MarkTourSeen(ctx context.Context, uid string) error {
	return s.users.MarkTourSeen(ctx, uid)
}

// IsAdmin reports whether uid carries the configured admin role.
func (s *ProfileService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	return s.admin.IsAdmin(ctx, uid)
}

type ImportResult struct {
	Imported int               `json:"imported"`
	Skipped  []string          `json:"skipped"`
	Invalid  map[string]string `json:"invalid"`
}

// ImportLegacyUsers creates users from documents exported by the old app.
// Existing users are skipped rather than overwritten.
func (s *ProfileService) ImportLegacyUsers(ctx context.Context, adminUID string, docs []models.LegacyUser) (*ImportResult, error) {
	if err := s.admin.require(ctx, adminUID); err != nil {
		return nil, err
	}
	res := &ImportResult{Skipped: []string{}, Invalid: map[string]string{}}
	for i, doc := range docs {
		u, err := doc.ToUser(s.legacyLoc)
		if err != nil {
			key := doc.UID
			if key == "" {
				key = doc.ID
			}
			if key == "" {
				key = "#" + strconv.Itoa(i)
			}
			res.Invalid[key] = err.Error()
			continue
		}
		if err := s.users.CreateUser(ctx, u); err != nil {
			if errors.Is(err, models.ErrAlreadyExists) {
				res.Skipped = append(res.Skipped, u.ID)
				continue
			}
			return res, err
		}
		res.Imported++
	}
	log.Printf("📥 [PROFILE] %s imported %d legacy users (%d skipped, %d invalid)", adminUID, res.Imported, len(res.Skipped), len(res.Invalid))
	return res, nil
}
