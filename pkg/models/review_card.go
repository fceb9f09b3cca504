package models

import "time"

// ReviewCard holds the SM-2 scheduling state for one (user, word) pair.
// It exists only once the word has been reviewed at least once.
type ReviewCard struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	WordID      int64     `json:"word_id" db:"word_id"`
	Interval    int       `json:"interval" db:"interval"`       // Days until the next review, >= 1
	EaseFactor  float64   `json:"ease_factor" db:"ease_factor"` // SM-2 EF, floored at 1.3
	Repetitions int       `json:"repetitions" db:"repetitions"` // Consecutive passes, reset to 0 on a fail
	NextReview  time.Time `json:"next_review" db:"next_review"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DueCard is a review card joined with its word for the learning-session
// feed.
type DueCard struct {
	WordID      int64     `json:"word_id" db:"word_id"`
	Word        string    `json:"word" db:"word"`
	Phonetic    string    `json:"phonetic" db:"phonetic"`
	Meaning     string    `json:"meaning" db:"meaning"`
	Interval    int       `json:"interval" db:"interval"`
	Repetitions int       `json:"repetitions" db:"repetitions"`
	NextReview  time.Time `json:"next_review" db:"next_review"`
}
