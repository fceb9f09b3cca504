package models

import "time"

// ProgressStatus describes how far a learner has taken a word.
type ProgressStatus string

const (
	// StatusNew means the word has never been answered
	StatusNew ProgressStatus = "new"
	// StatusLearning means the word has at least one recorded answer
	StatusLearning ProgressStatus = "learning"
	// StatusMastered means the word passed the mastery threshold
	StatusMastered ProgressStatus = "mastered"
)

// WordProgress tracks a learner's mastery of a single word. One row per
// (user, word); created lazily on the first recorded answer.
type WordProgress struct {
	ID               int64          `json:"id" db:"id"`
	UserID           int64          `json:"user_id" db:"user_id"`
	WordID           int64          `json:"word_id" db:"word_id"`
	Status           ProgressStatus `json:"status" db:"status"`
	CorrectCount     int            `json:"correct_count" db:"correct_count"`
	WrongCount       int            `json:"wrong_count" db:"wrong_count"`
	ConsecutiveRight int            `json:"consecutive_right" db:"consecutive_right"` // Current correct streak, reset on a miss
	LastReviewAt     *time.Time     `json:"last_review_at" db:"last_review_at"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}
