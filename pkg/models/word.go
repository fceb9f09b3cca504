package models

import "time"

// Word represents a vocabulary item. The word catalog is owned by the
// admin tooling; the progression core only reads it.
type Word struct {
	ID         int64     `json:"id" db:"id"`
	Word       string    `json:"word" db:"word"`
	Phonetic   string    `json:"phonetic" db:"phonetic"`
	Meaning    string    `json:"meaning" db:"meaning"`
	Example    string    `json:"example" db:"example"`
	Difficulty int       `json:"difficulty" db:"difficulty"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
