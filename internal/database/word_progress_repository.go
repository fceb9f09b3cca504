package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/pkg/models"
)

// WordProgressRepository handles database operations for word progress
type WordProgressRepository struct{}

// NewWordProgressRepository creates a new repository instance
func NewWordProgressRepository() *WordProgressRepository {
	return &WordProgressRepository{}
}

// GetByUserAndWord returns progress for a specific user and word, or
// (nil, nil) when no row exists yet.
func (r *WordProgressRepository) GetByUserAndWord(ctx context.Context, q sqlx.ExtContext, userID, wordID int64) (*models.WordProgress, error) {
	var progress models.WordProgress
	err := sqlx.GetContext(ctx, q, &progress,
		"SELECT * FROM word_progress WHERE user_id = $1 AND word_id = $2", userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word progress: %w", err)
	}
	return &progress, nil
}

// UpsertAnswer records one answer for (user, word): the row is created in
// learning status on first contact, counters are bumped in SQL so a
// concurrent answer can never lose an increment, and the status is
// promoted to mastered once the consecutive-correct streak reaches
// threshold. Mastered is sticky.
func (r *WordProgressRepository) UpsertAnswer(ctx context.Context, q sqlx.ExtContext, userID, wordID int64, correct bool, threshold int, now time.Time) (*models.WordProgress, error) {
	correctDelta, wrongDelta, streak := 0, 1, 0
	initialStatus := models.StatusLearning
	if correct {
		correctDelta, wrongDelta, streak = 1, 0, 1
		if threshold <= 1 {
			initialStatus = models.StatusMastered
		}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO word_progress (
			user_id, word_id, status, correct_count, wrong_count,
			consecutive_right, last_review_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			correct_count = word_progress.correct_count + excluded.correct_count,
			wrong_count = word_progress.wrong_count + excluded.wrong_count,
			consecutive_right = CASE
				WHEN excluded.wrong_count > 0 THEN 0
				ELSE word_progress.consecutive_right + 1
			END,
			status = CASE
				WHEN word_progress.status = 'mastered' THEN 'mastered'
				WHEN excluded.wrong_count = 0
					AND word_progress.consecutive_right + 1 >= $9 THEN 'mastered'
				ELSE word_progress.status
			END,
			last_review_at = excluded.last_review_at,
			updated_at = excluded.updated_at`,
		userID, wordID, initialStatus, correctDelta, wrongDelta, streak, now, now, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert word progress: %w", err)
	}
	return r.GetByUserAndWord(ctx, q, userID, wordID)
}

// CountByUser returns the number of words a user has progress for.
func (r *WordProgressRepository) CountByUser(ctx context.Context, q sqlx.ExtContext, userID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		"SELECT COUNT(*) FROM word_progress WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count word progress: %w", err)
	}
	return n, nil
}

// CountByStatus returns the number of a user's words in the given status.
func (r *WordProgressRepository) CountByStatus(ctx context.Context, q sqlx.ExtContext, userID int64, status models.ProgressStatus) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		"SELECT COUNT(*) FROM word_progress WHERE user_id = $1 AND status = $2", userID, status)
	if err != nil {
		return 0, fmt.Errorf("failed to count word progress by status: %w", err)
	}
	return n, nil
}
