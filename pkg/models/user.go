package models

import "time"

// User represents a learner account
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Nickname  string    `json:"nickname" db:"nickname"`
	Exp       int       `json:"exp" db:"exp"`       // Accumulated experience, never decreases
	Level     int       `json:"level" db:"level"`   // Derived: floor(exp/100)+1
	Coins     int       `json:"coins" db:"coins"`   // Spendable currency, never decremented here
	Streak    int       `json:"streak" db:"streak"` // Consecutive days with learning activity
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
