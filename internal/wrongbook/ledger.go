// Package wrongbook keeps the deduplicated record of words a learner has
// missed.
package wrongbook

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/internal/apperrors"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/pkg/models"
)

// SeriousThreshold is the miss count from which an entry counts as a
// serious trouble word.
const SeriousThreshold = 3

// Ledger owns wrong-book entries: one per (user, word), its count bumped
// on every miss and its category overwritten by the latest miss's reason.
type Ledger struct {
	wrongWords *database.WrongWordRepository
}

// NewLedger creates a ledger over the given repository.
func NewLedger(wrongWords *database.WrongWordRepository) *Ledger {
	return &Ledger{wrongWords: wrongWords}
}

// RecordMiss upserts the entry for (user, word). An empty category
// defaults to spelling.
func (l *Ledger) RecordMiss(ctx context.Context, q sqlx.ExtContext, userID, wordID int64, category models.WrongCategory, now time.Time) (*models.WrongWord, error) {
	if category == "" {
		category = models.CategorySpelling
	}
	if !models.ValidCategory(category) {
		return nil, apperrors.Validationf("unknown wrong-book category %q", category)
	}
	entry, err := l.wrongWords.Upsert(ctx, q, userID, wordID, category, now)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return entry, nil
}

// Remove deletes one entry. Destructive and immediate.
func (l *Ledger) Remove(ctx context.Context, userID, entryID int64) error {
	err := l.wrongWords.Remove(ctx, database.DB, userID, entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFoundf("wrong-book entry %d", entryID)
	}
	if err != nil {
		return apperrors.Fatal(err)
	}
	return nil
}

// ClearAll deletes every entry of the learner. Destructive and immediate.
func (l *Ledger) ClearAll(ctx context.Context, userID int64) error {
	if err := l.wrongWords.ClearAll(ctx, database.DB, userID); err != nil {
		return apperrors.Fatal(err)
	}
	return nil
}

// Stats is the aggregation over a learner's current entries.
type Stats struct {
	Total            int                          `json:"total"`
	SeriousCount     int                          `json:"serious_count"`
	CountsByCategory map[models.WrongCategory]int `json:"counts_by_category"`
}

// Stats aggregates the learner's entries as they are right now; nothing
// is cached.
func (l *Ledger) Stats(ctx context.Context, userID int64) (*Stats, error) {
	total, err := l.wrongWords.CountTotal(ctx, database.DB, userID)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	serious, err := l.wrongWords.CountSerious(ctx, database.DB, userID, SeriousThreshold)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	byCategory, err := l.wrongWords.CountsByCategory(ctx, database.DB, userID)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return &Stats{Total: total, SeriousCount: serious, CountsByCategory: byCategory}, nil
}

// List returns the learner's entries newest-miss first, optionally
// filtered by category ("" or "all" means no filter).
func (l *Ledger) List(ctx context.Context, userID int64, category models.WrongCategory) ([]models.WrongWordDetail, error) {
	if category == "all" {
		category = ""
	}
	if category != "" && !models.ValidCategory(category) {
		return nil, apperrors.Validationf("unknown wrong-book category %q", category)
	}
	entries, err := l.wrongWords.List(ctx, database.DB, userID, category)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return entries, nil
}
