package models

import "time"

// GameRecord is the write-only read-model row for one game play. History
// and leaderboard views are built from it; the progression core never
// updates a record after insert.
type GameRecord struct {
	ID          string    `json:"id" db:"id"` // UUID
	UserID      int64     `json:"user_id" db:"user_id"`
	GameType    string    `json:"game_type" db:"game_type"`
	Score       int       `json:"score" db:"score"`
	ExpEarned   int       `json:"exp_earned" db:"exp_earned"`
	CoinsEarned int       `json:"coins_earned" db:"coins_earned"`
	PlayedAt    time.Time `json:"played_at" db:"played_at"`
}

// LeaderboardEntry is a learner's best score for one game type.
type LeaderboardEntry struct {
	UserID   int64     `json:"user_id" db:"user_id"`
	Nickname string    `json:"nickname" db:"nickname"`
	Score    int       `json:"score" db:"score"`
	PlayedAt time.Time `json:"played_at" db:"played_at"`
}
