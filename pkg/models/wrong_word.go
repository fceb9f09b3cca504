package models

import "time"

// WrongCategory classifies why a word was missed. A wrong-book entry
// keeps only the category of the most recent miss.
type WrongCategory string

const (
	CategorySpelling  WrongCategory = "spelling"
	CategoryListening WrongCategory = "listening"
	CategoryReading   WrongCategory = "reading"
	CategoryGrammar   WrongCategory = "grammar"
)

// ValidCategory reports whether c is one of the known miss categories.
func ValidCategory(c WrongCategory) bool {
	switch c {
	case CategorySpelling, CategoryListening, CategoryReading, CategoryGrammar:
		return true
	}
	return false
}

// WrongWord is a deduplicated wrong-book entry, unique per (user, word).
type WrongWord struct {
	ID          int64         `json:"id" db:"id"`
	UserID      int64         `json:"user_id" db:"user_id"`
	WordID      int64         `json:"word_id" db:"word_id"`
	WrongCount  int           `json:"wrong_count" db:"wrong_count"`
	Category    WrongCategory `json:"category" db:"category"`
	LastWrongAt time.Time     `json:"last_wrong_at" db:"last_wrong_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// WrongWordDetail joins a wrong-book entry with its word for listing.
type WrongWordDetail struct {
	ID          int64         `json:"id" db:"id"`
	WordID      int64         `json:"word_id" db:"word_id"`
	Word        string        `json:"word" db:"word"`
	Phonetic    string        `json:"phonetic" db:"phonetic"`
	Meaning     string        `json:"meaning" db:"meaning"`
	WrongCount  int           `json:"wrong_count" db:"wrong_count"`
	Category    WrongCategory `json:"category" db:"category"`
	LastWrongAt time.Time     `json:"last_wrong_at" db:"last_wrong_at"`
}
