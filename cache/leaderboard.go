// Package cache keeps computed read models in redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tournament-booking-system/models"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "tournaments:leaderboard:coins"

// LeaderboardCache stores the coin leaderboard as one JSON blob with a TTL,
// so a stopped refresher cannot serve stale ranks forever.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLeaderboardCache connects to rawURL (redis:// or rediss://) and pings it.
func NewLeaderboardCache(rawURL string, ttl time.Duration) (*LeaderboardCache, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &LeaderboardCache{rdb: rdb, ttl: ttl}, nil
}

func (c *LeaderboardCache) GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, bool, error) {
	raw, err := c.rdb.Get(ctx, leaderboardKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *LeaderboardCache) SetLeaderboard(ctx context.Context, entries []models.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, leaderboardKey, raw, c.ttl).Err()
}

func (c *LeaderboardCache) Close() error {
	return c.rdb.Close()
}
