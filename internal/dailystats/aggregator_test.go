package dailystats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/vocabgo/internal/apperrors"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/pkg/models"
)

func setupDB(t *testing.T) int64 {
	t.Helper()
	if err := database.Connect("sqlite", ":memory:"); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	user := &models.User{Username: "tester", Level: 1}
	if err := database.NewUserRepository().Create(context.Background(), database.DB, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user.ID
}

func accumulate(t *testing.T, a *Aggregator, userID int64, date string, d database.StatDeltas) *models.DailyStat {
	t.Helper()
	stat, err := a.Accumulate(context.Background(), database.DB, userID, date, d)
	if err != nil {
		t.Fatalf("Accumulate(%s): %v", date, err)
	}
	return stat
}

func TestAccumulateCreatesThenAdds(t *testing.T) {
	userID := setupDB(t)
	agg := NewAggregator(database.NewDailyStatRepository())

	stat := accumulate(t, agg, userID, "2026-03-01", database.StatDeltas{WordsLearned: 1, ExpEarned: 10, CoinsEarned: 1})
	if stat.WordsLearned != 1 || stat.ExpEarned != 10 || stat.CoinsEarned != 1 || stat.GamesPlayed != 0 {
		t.Errorf("initial row = %+v, want the deltas as initial values", stat)
	}

	stat = accumulate(t, agg, userID, "2026-03-01", database.StatDeltas{GamesPlayed: 1, ExpEarned: 50, CoinsEarned: 10})
	if stat.WordsLearned != 1 || stat.GamesPlayed != 1 || stat.ExpEarned != 60 || stat.CoinsEarned != 11 {
		t.Errorf("accumulated row = %+v, want 1/1/60/11", stat)
	}
}

func TestAccumulateValidates(t *testing.T) {
	userID := setupDB(t)
	agg := NewAggregator(database.NewDailyStatRepository())
	ctx := context.Background()

	for _, date := range []string{"03/01/2026", "2026-3-1", "yesterday", ""} {
		if _, err := agg.Accumulate(ctx, database.DB, userID, date, database.StatDeltas{}); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("date %q: error = %v, want ErrValidation", date, err)
		}
	}
	if _, err := agg.Accumulate(ctx, database.DB, userID, "2026-03-01", database.StatDeltas{ExpEarned: -5}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("negative delta: error = %v, want ErrValidation", err)
	}
}

func TestDayReturnsZeroRowWhenInactive(t *testing.T) {
	userID := setupDB(t)
	agg := NewAggregator(database.NewDailyStatRepository())

	stat, err := agg.Day(context.Background(), userID, "2026-03-01")
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if stat.WordsLearned != 0 || stat.GamesPlayed != 0 || stat.ExpEarned != 0 || stat.CoinsEarned != 0 {
		t.Errorf("inactive day = %+v, want zero counters", stat)
	}
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	userID := setupDB(t)
	agg := NewAggregator(database.NewDailyStatRepository())
	ctx := context.Background()

	for _, date := range []string{"2026-02-27", "2026-02-28", "2026-03-01"} {
		accumulate(t, agg, userID, date, database.StatDeltas{WordsLearned: 1})
	}

	streak, err := agg.Streak(ctx, database.DB, userID, "2026-03-01")
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 3 {
		t.Errorf("streak = %d, want 3", streak)
	}
}

func TestStreakAnchorsOnYesterday(t *testing.T) {
	userID := setupDB(t)
	agg := NewAggregator(database.NewDailyStatRepository())

	accumulate(t, agg, userID, "2026-02-28", database.StatDeltas{WordsLearned: 1})
	accumulate(t, agg, userID, "2026-03-01", database.StatDeltas{WordsLearned: 1})

	// No activity yet today: yesterday's run still counts.
	streak, err := agg.Streak(context.Background(), database.DB, userID, "2026-03-02")
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 2 {
		t.Errorf("streak = %d, want 2", streak)
	}
}

func TestStreakBrokenByGap(t *testing.T) {
	userID := setupDB(t)
	agg := NewAggregator(database.NewDailyStatRepository())
	ctx := context.Background()

	accumulate(t, agg, userID, "2026-02-20", database.StatDeltas{WordsLearned: 1})
	accumulate(t, agg, userID, "2026-02-21", database.StatDeltas{WordsLearned: 1})
	accumulate(t, agg, userID, "2026-03-01", database.StatDeltas{WordsLearned: 1})

	streak, err := agg.Streak(ctx, database.DB, userID, "2026-03-01")
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 1 {
		t.Errorf("streak = %d, want 1 (gap before 03-01)", streak)
	}

	// Two days after the last activity the streak is gone entirely.
	streak, err = agg.Streak(ctx, database.DB, userID, "2026-03-03")
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak != 0 {
		t.Errorf("streak = %d, want 0", streak)
	}
}

func TestDateKeyUsesUTC(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	instant := time.Date(2026, 2, 28, 23, 30, 0, 0, loc)
	if got := DateKey(instant); got != "2026-03-01" {
		t.Errorf("DateKey = %s, want 2026-03-01", got)
	}
}
