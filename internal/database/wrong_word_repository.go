package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/pkg/models"
)

// WrongWordRepository handles database operations for the wrong book
type WrongWordRepository struct{}

// NewWrongWordRepository creates a new repository instance
func NewWrongWordRepository() *WrongWordRepository {
	return &WrongWordRepository{}
}

// Upsert records one miss: a new entry starts at wrong_count 1, an
// existing one is bumped in SQL and takes the latest miss's category and
// timestamp. Returns the entry after the write.
func (r *WrongWordRepository) Upsert(ctx context.Context, q sqlx.ExtContext, userID, wordID int64, category models.WrongCategory, now time.Time) (*models.WrongWord, error) {
	_, err := q.ExecContext(ctx, `
		INSERT INTO wrong_words (user_id, word_id, wrong_count, category, last_wrong_at)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			wrong_count = wrong_words.wrong_count + 1,
			category = excluded.category,
			last_wrong_at = excluded.last_wrong_at`,
		userID, wordID, category, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert wrong word: %w", err)
	}

	var entry models.WrongWord
	err = sqlx.GetContext(ctx, q, &entry,
		"SELECT * FROM wrong_words WHERE user_id = $1 AND word_id = $2", userID, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wrong word: %w", err)
	}
	return &entry, nil
}

// Remove deletes a single entry owned by the user.
func (r *WrongWordRepository) Remove(ctx context.Context, q sqlx.ExtContext, userID, entryID int64) error {
	res, err := q.ExecContext(ctx,
		"DELETE FROM wrong_words WHERE id = $1 AND user_id = $2", entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove wrong word: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClearAll deletes every entry for the user.
func (r *WrongWordRepository) ClearAll(ctx context.Context, q sqlx.ExtContext, userID int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM wrong_words WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to clear wrong book: %w", err)
	}
	return nil
}

// List returns the user's entries joined with their words, newest miss
// first. An empty category means no filter.
func (r *WrongWordRepository) List(ctx context.Context, q sqlx.ExtContext, userID int64, category models.WrongCategory) ([]models.WrongWordDetail, error) {
	query := `
		SELECT ww.id, ww.word_id, w.word, w.phonetic, w.meaning,
		       ww.wrong_count, ww.category, ww.last_wrong_at
		FROM wrong_words ww
		JOIN words w ON w.id = ww.word_id
		WHERE ww.user_id = $1`
	args := []any{userID}
	if category != "" {
		query += " AND ww.category = $2"
		args = append(args, category)
	}
	query += " ORDER BY ww.last_wrong_at DESC"

	var entries []models.WrongWordDetail
	if err := sqlx.SelectContext(ctx, q, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list wrong words: %w", err)
	}
	return entries, nil
}

// CountTotal returns the user's entry count.
func (r *WrongWordRepository) CountTotal(ctx context.Context, q sqlx.ExtContext, userID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		"SELECT COUNT(*) FROM wrong_words WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count wrong words: %w", err)
	}
	return n, nil
}

// CountSerious returns entries missed at least minCount times.
func (r *WrongWordRepository) CountSerious(ctx context.Context, q sqlx.ExtContext, userID int64, minCount int) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		"SELECT COUNT(*) FROM wrong_words WHERE user_id = $1 AND wrong_count >= $2", userID, minCount)
	if err != nil {
		return 0, fmt.Errorf("failed to count serious wrong words: %w", err)
	}
	return n, nil
}

// categoryCount is one row of the per-category aggregation.
type categoryCount struct {
	Category models.WrongCategory `db:"category"`
	Count    int                  `db:"count"`
}

// CountsByCategory returns entry counts grouped by category.
func (r *WrongWordRepository) CountsByCategory(ctx context.Context, q sqlx.ExtContext, userID int64) (map[models.WrongCategory]int, error) {
	var rows []categoryCount
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT category, COUNT(*) AS count
		FROM wrong_words
		WHERE user_id = $1
		GROUP BY category`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count wrong words by category: %w", err)
	}
	out := make(map[models.WrongCategory]int, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Count
	}
	return out, nil
}
