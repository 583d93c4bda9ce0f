package models

import (
	"strings"
	"time"
)

// LegacyUser is a user document exported from the old document store. Its
// read marker appears under two names depending on the client version that
// last wrote it.
type LegacyUser struct {
	UID             string `json:"uid"`
	ID              string `json:"id"`
	Email           string `json:"email"`
	InGameName      string `json:"inGameName"`
	InGameUID       string `json:"inGameUID"`
	PhoneNumber     string `json:"phoneNumber"`
	Coins           int64  `json:"coins"`
	WonTournaments  int64  `json:"wonTournaments"`
	HasSeenTour     bool   `json:"hasSeenTour"`
	LastReadUpdates any    `json:"lastReadUpdates"`
	LastUpdatesRead any    `json:"lastUpdatesRead"`
}

// ToUser maps the document onto a User. When both read markers are present
// the later one wins; legacy strings are read in loc.
func (l LegacyUser) ToUser(loc *time.Location) (*User, error) {
	id := strings.TrimSpace(l.UID)
	if id == "" {
		id = strings.TrimSpace(l.ID)
	}
	if id == "" {
		return nil, Invalid("uid", "uid is required")
	}
	if l.Coins < 0 || l.WonTournaments < 0 {
		return nil, Invalid("coins", "coins and won tournaments must not be negative")
	}

	u := &User{
		ID:             id,
		Email:          strings.ToLower(strings.TrimSpace(l.Email)),
		InGameName:     strings.TrimSpace(l.InGameName),
		InGameUID:      strings.TrimSpace(l.InGameUID),
		PhoneNumber:    strings.TrimSpace(l.PhoneNumber),
		Coins:          l.Coins,
		WonTournaments: l.WonTournaments,
		HasSeenTour:    l.HasSeenTour,
	}
	for _, raw := range []any{l.LastReadUpdates, l.LastUpdatesRead} {
		if raw == nil {
			continue
		}
		at, ok := ParseUpdatedAt(raw, loc)
		if !ok {
			return nil, Invalid("lastUpdatesRead", "unrecognized read marker")
		}
		if u.LastUpdatesReadAt == nil || at.After(*u.LastUpdatesReadAt) {
			u.LastUpdatesReadAt = &at
		}
	}
	return u, nil
}
