// Package progression sequences the learning-progression subsystems for
// a single event. One review answer or one game submission enters here
// and leaves as one atomic update across scheduling, progress, the wrong
// book, rewards and daily stats: readers never observe a partially
// applied event.
package progression

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/internal/apperrors"
	"github.com/example/vocabgo/internal/dailystats"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/internal/logger"
	"github.com/example/vocabgo/internal/progress"
	"github.com/example/vocabgo/internal/reward"
	"github.com/example/vocabgo/internal/srs"
	"github.com/example/vocabgo/internal/wrongbook"
	"github.com/example/vocabgo/pkg/models"
)

// ReviewEvent is one answered review.
type ReviewEvent struct {
	UserID   int64
	WordID   int64
	Correct  bool
	Quality  *srs.Quality         // optional; derived from Correct when nil
	Category models.WrongCategory // wrong-book category when incorrect
	Now      time.Time
}

// GameAnswer is one item's outcome inside a game submission.
type GameAnswer struct {
	WordID  int64
	Correct bool
}

// GameEvent is one completed game.
type GameEvent struct {
	UserID   int64
	GameType string
	Score    int
	Answers  []GameAnswer
	Now      time.Time
}

// EventResult reports one applied event. Card, Progress and WrongEntry
// are set for review events; Record for game events.
type EventResult struct {
	ExpEarned   int                  `json:"exp_earned"`
	CoinsEarned int                  `json:"coins_earned"`
	NewLevel    int                  `json:"new_level"`
	NewExp      int                  `json:"new_exp"`
	LeveledUp   bool                 `json:"leveled_up"`
	Streak      int                  `json:"streak"`
	Card        *models.ReviewCard   `json:"card,omitempty"`
	Progress    *models.WordProgress `json:"progress,omitempty"`
	WrongEntry  *models.WrongWord    `json:"wrong_entry,omitempty"`
	Record      *models.GameRecord   `json:"record,omitempty"`
	DayStat     *models.DailyStat    `json:"day_stat,omitempty"`
}

// Coordinator wires the progression subsystems together. It is the only
// writer of cross-entity consistency: every mutation for one event runs
// inside a single transaction, and events for the same learner are
// serialized through a keyed mutex so each read-modify-write sees the
// previous event's state.
type Coordinator struct {
	log       *logger.Logger
	users     *database.UserRepository
	words     *database.WordRepository
	games     *database.GameRecordRepository
	scheduler *srs.Scheduler
	tracker   *progress.Tracker
	wrongBook *wrongbook.Ledger
	rewards   *reward.Engine
	daily     *dailystats.Aggregator
	locks     *keyedMutex
}

// NewCoordinator wires a coordinator from its collaborators.
func NewCoordinator(
	log *logger.Logger,
	users *database.UserRepository,
	words *database.WordRepository,
	games *database.GameRecordRepository,
	scheduler *srs.Scheduler,
	tracker *progress.Tracker,
	wrongBook *wrongbook.Ledger,
	rewards *reward.Engine,
	daily *dailystats.Aggregator,
) *Coordinator {
	return &Coordinator{
		log:       log,
		users:     users,
		words:     words,
		games:     games,
		scheduler: scheduler,
		tracker:   tracker,
		wrongBook: wrongBook,
		rewards:   rewards,
		daily:     daily,
		locks:     newKeyedMutex(),
	}
}

// SubmitReview applies one review answer as a single atomic unit:
// schedule update, progress counters, wrong book on a miss, review
// reward and the day's stats.
func (c *Coordinator) SubmitReview(ctx context.Context, ev ReviewEvent) (*EventResult, error) {
	if ev.Now.IsZero() {
		ev.Now = time.Now().UTC()
	}

	quality := srs.QualityCorrectHesitation
	if !ev.Correct {
		quality = srs.QualityIncorrect
	}
	if ev.Quality != nil {
		quality = *ev.Quality
	}
	if !quality.Valid() {
		return nil, apperrors.Validationf("quality %d out of range 0-5", quality)
	}

	unlock := c.locks.lock(ev.UserID)
	defer unlock()

	var res EventResult
	err := database.InTx(ctx, func(tx *sqlx.Tx) error {
		if err := c.checkUser(ctx, tx, ev.UserID); err != nil {
			return err
		}
		if err := c.checkWord(ctx, tx, ev.WordID); err != nil {
			return err
		}

		card, err := c.scheduler.RecordOutcome(ctx, tx, ev.UserID, ev.WordID, quality, ev.Now)
		if err != nil {
			return err
		}
		prog, err := c.tracker.RecordAnswer(ctx, tx, ev.UserID, ev.WordID, ev.Correct, ev.Now)
		if err != nil {
			return err
		}

		var wrongEntry *models.WrongWord
		if !ev.Correct {
			wrongEntry, err = c.wrongBook.RecordMiss(ctx, tx, ev.UserID, ev.WordID, ev.Category, ev.Now)
			if err != nil {
				return err
			}
		}

		expDelta, coinDelta := c.rewards.ReviewReward(ev.Correct)
		rr, err := c.rewards.ApplyReward(ctx, tx, ev.UserID, expDelta, coinDelta)
		if err != nil {
			return err
		}

		deltas := database.StatDeltas{ExpEarned: expDelta, CoinsEarned: coinDelta}
		if ev.Correct {
			deltas.WordsLearned = 1
		}
		date := dailystats.DateKey(ev.Now)
		stat, err := c.daily.Accumulate(ctx, tx, ev.UserID, date, deltas)
		if err != nil {
			return err
		}
		streak, err := c.refreshStreak(ctx, tx, ev.UserID, date, ev.Now)
		if err != nil {
			return err
		}

		res = EventResult{
			ExpEarned:   rr.ExpEarned,
			CoinsEarned: rr.CoinsEarned,
			NewLevel:    rr.NewLevel,
			NewExp:      rr.NewExp,
			LeveledUp:   rr.LeveledUp,
			Streak:      streak,
			Card:        card,
			Progress:    prog,
			WrongEntry:  wrongEntry,
			DayStat:     stat,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug("review applied",
		"user", ev.UserID, "word", ev.WordID, "correct", ev.Correct,
		"quality", int(quality), "interval", res.Card.Interval)
	return &res, nil
}

// SubmitGame applies one game submission as a single atomic unit: wrong
// book for missed items, score-scaled reward, the day's stats and the
// write-only game record.
func (c *Coordinator) SubmitGame(ctx context.Context, ev GameEvent) (*EventResult, error) {
	if ev.Now.IsZero() {
		ev.Now = time.Now().UTC()
	}

	// Rejects unknown game types and out-of-range scores before anything
	// is written.
	expDelta, coinDelta, err := c.rewards.GameReward(ev.GameType, ev.Score)
	if err != nil {
		return nil, err
	}

	unlock := c.locks.lock(ev.UserID)
	defer unlock()

	var res EventResult
	err = database.InTx(ctx, func(tx *sqlx.Tx) error {
		if err := c.checkUser(ctx, tx, ev.UserID); err != nil {
			return err
		}
		for _, ans := range ev.Answers {
			if err := c.checkWord(ctx, tx, ans.WordID); err != nil {
				return err
			}
		}

		for _, ans := range ev.Answers {
			if ans.Correct {
				continue
			}
			if _, err := c.wrongBook.RecordMiss(ctx, tx, ev.UserID, ans.WordID, models.CategorySpelling, ev.Now); err != nil {
				return err
			}
		}

		rr, err := c.rewards.ApplyReward(ctx, tx, ev.UserID, expDelta, coinDelta)
		if err != nil {
			return err
		}

		date := dailystats.DateKey(ev.Now)
		stat, err := c.daily.Accumulate(ctx, tx, ev.UserID, date, database.StatDeltas{
			GamesPlayed: 1,
			ExpEarned:   expDelta,
			CoinsEarned: coinDelta,
		})
		if err != nil {
			return err
		}
		streak, err := c.refreshStreak(ctx, tx, ev.UserID, date, ev.Now)
		if err != nil {
			return err
		}

		record := &models.GameRecord{
			ID:          uuid.NewString(),
			UserID:      ev.UserID,
			GameType:    ev.GameType,
			Score:       ev.Score,
			ExpEarned:   expDelta,
			CoinsEarned: coinDelta,
			PlayedAt:    ev.Now,
		}
		if err := c.games.Create(ctx, tx, record); err != nil {
			return apperrors.Fatal(err)
		}

		res = EventResult{
			ExpEarned:   rr.ExpEarned,
			CoinsEarned: rr.CoinsEarned,
			NewLevel:    rr.NewLevel,
			NewExp:      rr.NewExp,
			LeveledUp:   rr.LeveledUp,
			Streak:      streak,
			Record:      record,
			DayStat:     stat,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug("game applied",
		"user", ev.UserID, "game", ev.GameType, "score", ev.Score,
		"exp", res.ExpEarned, "coins", res.CoinsEarned)
	return &res, nil
}

// refreshStreak recomputes the learner's streak from daily stat presence
// and stores it on the account.
func (c *Coordinator) refreshStreak(ctx context.Context, tx *sqlx.Tx, userID int64, date string, now time.Time) (int, error) {
	streak, err := c.daily.Streak(ctx, tx, userID, date)
	if err != nil {
		return 0, err
	}
	if err := c.users.SetStreak(ctx, tx, userID, streak, now); err != nil {
		return 0, apperrors.Fatal(err)
	}
	return streak, nil
}

func (c *Coordinator) checkUser(ctx context.Context, q sqlx.ExtContext, userID int64) error {
	user, err := c.users.GetByID(ctx, q, userID)
	if err != nil {
		return apperrors.Fatal(err)
	}
	if user == nil {
		return apperrors.NotFoundf("user %d", userID)
	}
	return nil
}

func (c *Coordinator) checkWord(ctx context.Context, q sqlx.ExtContext, wordID int64) error {
	ok, err := c.words.Exists(ctx, q, wordID)
	if err != nil {
		return apperrors.Fatal(err)
	}
	if !ok {
		return apperrors.NotFoundf("word %d", wordID)
	}
	return nil
}

// LearningStats is the profile snapshot of one learner's progress.
type LearningStats struct {
	Today         *models.DailyStat `json:"today"`
	TotalWords    int               `json:"total_words"`
	MasteredWords int               `json:"mastered_words"`
	ReviewCount   int               `json:"review_count"`
	Streak        int               `json:"streak"`
}

// Stats assembles the learner's snapshot: today's counters, tracked and
// mastered word totals, currently due reviews and the streak.
func (c *Coordinator) Stats(ctx context.Context, userID int64, now time.Time) (*LearningStats, error) {
	if err := c.checkUser(ctx, database.DB, userID); err != nil {
		return nil, err
	}
	date := dailystats.DateKey(now)
	today, err := c.daily.Day(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	summary, err := c.tracker.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	due, err := c.countDue(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	streak, err := c.daily.Streak(ctx, database.DB, userID, date)
	if err != nil {
		return nil, err
	}
	return &LearningStats{
		Today:         today,
		TotalWords:    summary.TotalWords,
		MasteredWords: summary.MasteredWords,
		ReviewCount:   due,
		Streak:        streak,
	}, nil
}

func (c *Coordinator) countDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	return c.scheduler.CountDue(ctx, userID, now)
}

// History returns the learner's latest game plays.
func (c *Coordinator) History(ctx context.Context, userID int64, limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := c.games.History(ctx, database.DB, userID, limit)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return records, nil
}

// Leaderboard returns the best score per learner for one game type,
// highest first.
func (c *Coordinator) Leaderboard(ctx context.Context, gameType string, limit int) ([]models.LeaderboardEntry, error) {
	if !c.rewards.HasGame(gameType) {
		return nil, apperrors.NotFoundf("game type %q", gameType)
	}
	if limit <= 0 {
		limit = 10
	}
	scores, err := c.games.BestScores(ctx, database.DB, gameType)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}

	seen := make(map[int64]bool)
	var board []models.LeaderboardEntry
	for _, entry := range scores {
		if seen[entry.UserID] {
			continue
		}
		seen[entry.UserID] = true
		board = append(board, entry)
		if len(board) == limit {
			break
		}
	}
	return board, nil
}
