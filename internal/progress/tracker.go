// Package progress tracks per-(user, word) mastery status and answer
// counters.
package progress

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/internal/apperrors"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/pkg/models"
)

// DefaultMasteryStreak is the consecutive-correct run that promotes a
// word to mastered when no explicit threshold is configured.
const DefaultMasteryStreak = 5

// Tracker owns word progress rows. Counters only ever grow; a word moves
// to learning on its first answer and to mastered once the consecutive
// correct streak reaches the configured threshold. Mastered is sticky.
type Tracker struct {
	progress      *database.WordProgressRepository
	masteryStreak int
}

// NewTracker creates a tracker. A non-positive masteryStreak selects
// DefaultMasteryStreak.
func NewTracker(progress *database.WordProgressRepository, masteryStreak int) *Tracker {
	if masteryStreak <= 0 {
		masteryStreak = DefaultMasteryStreak
	}
	return &Tracker{progress: progress, masteryStreak: masteryStreak}
}

// RecordAnswer records one answer for (user, word), lazily creating the
// progress row, and returns the row after the update.
func (t *Tracker) RecordAnswer(ctx context.Context, q sqlx.ExtContext, userID, wordID int64, correct bool, now time.Time) (*models.WordProgress, error) {
	row, err := t.progress.UpsertAnswer(ctx, q, userID, wordID, correct, t.masteryStreak, now)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return row, nil
}

// Summary is an overview of one learner's tracked words.
type Summary struct {
	TotalWords    int `json:"total_words"`
	MasteredWords int `json:"mastered_words"`
}

// Summarize counts the learner's tracked and mastered words.
func (t *Tracker) Summarize(ctx context.Context, userID int64) (*Summary, error) {
	total, err := t.progress.CountByUser(ctx, database.DB, userID)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	mastered, err := t.progress.CountByStatus(ctx, database.DB, userID, models.StatusMastered)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return &Summary{TotalWords: total, MasteredWords: mastered}, nil
}
