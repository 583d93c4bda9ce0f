package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// User is the player profile and coin wallet. ID is the uid issued by the
// external identity provider and forwarded by the gateway.
type User struct {
	ID                string         `gorm:"primaryKey" json:"uid"`
	Email             string         `gorm:"index" json:"email"`
	InGameName        string         `json:"in_game_name"`
	InGameUID         string         `json:"in_game_uid"`
	PhoneNumber       string         `json:"phone_number"`
	Coins             int64          `gorm:"not null;default:0;check:coins >= 0" json:"coins"`
	WonTournaments    int64          `gorm:"not null;default:0" json:"won_tournaments"`
	LastUpdatesReadAt *time.Time     `json:"last_updates_read_at,omitempty"`
	HasSeenTour       bool           `gorm:"default:false" json:"has_seen_tour"`
	Roles             pq.StringArray `gorm:"type:text[]" json:"roles,omitempty"`

	Timestamps
}

// HasRole reports whether the user record carries role (case-insensitive).
func (u *User) HasRole(role string) bool {
	if u == nil || role == "" {
		return false
	}
	for _, r := range u.Roles {
		if strings.EqualFold(strings.TrimSpace(r), role) {
			return true
		}
	}
	return false
}
