package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/pkg/models"
)

// WordRepository handles database operations for the word catalog
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// GetByID returns a word by ID, or (nil, nil) when absent.
func (r *WordRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Word, error) {
	var word models.Word
	err := sqlx.GetContext(ctx, q, &word, "SELECT * FROM words WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return &word, nil
}

// Exists reports whether the word id is present in the catalog.
func (r *WordRepository) Exists(ctx context.Context, q sqlx.ExtContext, id int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, "SELECT COUNT(*) FROM words WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to check word: %w", err)
	}
	return n > 0, nil
}

// Create inserts a new word
func (r *WordRepository) Create(ctx context.Context, q sqlx.ExtContext, word *models.Word) error {
	id, err := insertID(ctx, q, `
		INSERT INTO words (word, phonetic, meaning, example, difficulty)
		VALUES ($1, $2, $3, $4, $5)`,
		word.Word, word.Phonetic, word.Meaning, word.Example, word.Difficulty,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}
	word.ID = id
	return nil
}
