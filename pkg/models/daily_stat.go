package models

// DailyStat accumulates one learner's counters for a single UTC calendar
// day. Date is a YYYY-MM-DD key; counters only grow within the day.
type DailyStat struct {
	ID           int64  `json:"id" db:"id"`
	UserID       int64  `json:"user_id" db:"user_id"`
	Date         string `json:"date" db:"date"`
	WordsLearned int    `json:"words_learned" db:"words_learned"`
	GamesPlayed  int    `json:"games_played" db:"games_played"`
	ExpEarned    int    `json:"exp_earned" db:"exp_earned"`
	CoinsEarned  int    `json:"coins_earned" db:"coins_earned"`
}
