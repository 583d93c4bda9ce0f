package models

// LeaderboardEntry is one ranked row of the coin leaderboard.
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UID            string `json:"uid"`
	InGameName     string `json:"in_game_name"`
	Coins          int64  `json:"coins"`
	WonTournaments int64  `json:"won_tournaments"`
}
