package services

import (
	"context"
	"log"

	"tournament-booking-system/models"
)

type LeaderboardService struct {
	users UserStore
	cache LeaderboardCache
	size  int
}

// NewLeaderboardService builds the coin leaderboard. cache may be nil.
func NewLeaderboardService(users UserStore, cache LeaderboardCache, size int) *LeaderboardService {
	if size <= 0 {
		size = 5
	}
	return &LeaderboardService{users: users, cache: cache, size: size}
}

// Top serves the cached leaderboard and falls back to the database.
func (s *LeaderboardService) Top(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if s.cache != nil {
		entries, ok, err := s.cache.GetLeaderboard(ctx)
		if err != nil {
			log.Printf("⚠️  [LEADERBOARD] cache read failed: %v", err)
		} else if ok {
			return entries, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the leaderboard and stores it in the cache.
func (s *LeaderboardService) Refresh(ctx context.Context) ([]models.LeaderboardEntry, error) {
	users, err := s.users.TopUsersByCoins(ctx, s.size)
	if err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = models.LeaderboardEntry{
			Rank:           i + 1,
			UID:            u.ID,
			InGameName:     u.InGameName,
			Coins:          u.Coins,
			WonTournaments: u.WonTournaments,
		}
	}
	if s.cache != nil {
		if err := s.cache.SetLeaderboard(ctx, entries); err != nil {
			log.Printf("⚠️  [LEADERBOARD] cache write failed: %v", err)
		}
	}
	return entries, nil
}
