package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/pkg/models"
)

// DailyStatRepository handles database operations for daily counters
type DailyStatRepository struct{}

// NewDailyStatRepository creates a new repository instance
func NewDailyStatRepository() *DailyStatRepository {
	return &DailyStatRepository{}
}

// StatDeltas are the per-event increments applied to one day's row.
// Absent counters are zero and leave the stored value untouched.
type StatDeltas struct {
	WordsLearned int
	GamesPlayed  int
	ExpEarned    int
	CoinsEarned  int
}

// Accumulate adds the deltas to the (user, date) row, creating it with
// the deltas as initial values when absent. The additions happen in SQL
// so concurrent events cannot lose an increment.
func (r *DailyStatRepository) Accumulate(ctx context.Context, q sqlx.ExtContext, userID int64, date string, d StatDeltas) (*models.DailyStat, error) {
	_, err := q.ExecContext(ctx, `
		INSERT INTO daily_stats (user_id, date, words_learned, games_played, exp_earned, coins_earned)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE SET
			words_learned = daily_stats.words_learned + excluded.words_learned,
			games_played = daily_stats.games_played + excluded.games_played,
			exp_earned = daily_stats.exp_earned + excluded.exp_earned,
			coins_earned = daily_stats.coins_earned + excluded.coins_earned`,
		userID, date, d.WordsLearned, d.GamesPlayed, d.ExpEarned, d.CoinsEarned,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to accumulate daily stats: %w", err)
	}
	return r.GetByUserAndDate(ctx, q, userID, date)
}

// GetByUserAndDate returns one day's row, or (nil, nil) when the learner
// had no activity that day.
func (r *DailyStatRepository) GetByUserAndDate(ctx context.Context, q sqlx.ExtContext, userID int64, date string) (*models.DailyStat, error) {
	var stat models.DailyStat
	err := sqlx.GetContext(ctx, q, &stat,
		"SELECT * FROM daily_stats WHERE user_id = $1 AND date = $2", userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	return &stat, nil
}

// Dates returns the user's active dates, newest first, capped at limit.
// Used for streak computation.
func (r *DailyStatRepository) Dates(ctx context.Context, q sqlx.ExtContext, userID int64, limit int) ([]string, error) {
	var dates []string
	err := sqlx.SelectContext(ctx, q, &dates, `
		SELECT date FROM daily_stats
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get active dates: %w", err)
	}
	return dates, nil
}
