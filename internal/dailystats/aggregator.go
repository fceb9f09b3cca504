// Package dailystats accumulates per-learner-per-day activity counters
// used for streaks and leaderboards.
package dailystats

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/internal/apperrors"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/pkg/models"
)

// DateLayout is the calendar-day key format (UTC date).
const DateLayout = "2006-01-02"

// streakScan caps how far back the streak walk looks.
const streakScan = 366

// DateKey converts an instant to its UTC calendar-day key.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Aggregator owns daily stat rows. Counters only grow within a day; past
// days are never edited.
type Aggregator struct {
	stats *database.DailyStatRepository
}

// NewAggregator creates an aggregator over the given repository.
func NewAggregator(stats *database.DailyStatRepository) *Aggregator {
	return &Aggregator{stats: stats}
}

// Accumulate adds the deltas to the learner's row for date, creating the
// row when absent. The date must be a YYYY-MM-DD key; which calendar day
// an event belongs to is the caller's decision.
func (a *Aggregator) Accumulate(ctx context.Context, q sqlx.ExtContext, userID int64, date string, d database.StatDeltas) (*models.DailyStat, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, apperrors.Validationf("malformed date %q, want YYYY-MM-DD", date)
	}
	if d.WordsLearned < 0 || d.GamesPlayed < 0 || d.ExpEarned < 0 || d.CoinsEarned < 0 {
		return nil, apperrors.Validationf("daily stat deltas must be non-negative")
	}
	stat, err := a.stats.Accumulate(ctx, q, userID, date, d)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return stat, nil
}

// Day returns the learner's row for date. A day without activity comes
// back as a zero-counter row rather than nil.
func (a *Aggregator) Day(ctx context.Context, userID int64, date string) (*models.DailyStat, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, apperrors.Validationf("malformed date %q, want YYYY-MM-DD", date)
	}
	stat, err := a.stats.GetByUserAndDate(ctx, database.DB, userID, date)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	if stat == nil {
		stat = &models.DailyStat{UserID: userID, Date: date}
	}
	return stat, nil
}

// Streak counts the consecutive active days ending at today, given
// today's date key. A run that ended yesterday still counts (today's
// activity may simply not have happened yet); a gap before yesterday
// means the streak is over.
func (a *Aggregator) Streak(ctx context.Context, q sqlx.ExtContext, userID int64, today string) (int, error) {
	anchor, err := time.Parse(DateLayout, today)
	if err != nil {
		return 0, apperrors.Validationf("malformed date %q, want YYYY-MM-DD", today)
	}

	dates, err := a.stats.Dates(ctx, q, userID, streakScan)
	if err != nil {
		return 0, apperrors.Fatal(err)
	}
	if len(dates) == 0 {
		return 0, nil
	}

	day := anchor
	if dates[0] != DateKey(day) {
		day = day.AddDate(0, 0, -1)
		if dates[0] != DateKey(day) {
			return 0, nil
		}
	}

	streak := 0
	for _, d := range dates {
		if d != DateKey(day) {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}
