package srs

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/internal/apperrors"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/pkg/models"
)

// Scheduler owns the per-(user, word) review cards and computes next-due
// dates with the SM-2 rule in this package.
type Scheduler struct {
	cards *database.ReviewCardRepository
}

// NewScheduler creates a scheduler over the given card repository.
func NewScheduler(cards *database.ReviewCardRepository) *Scheduler {
	return &Scheduler{cards: cards}
}

// RecordOutcome applies one review outcome to the card for (user, word),
// creating the card first if the word has never been reviewed, and
// returns the updated card. The caller supplies now; the same state and
// now always produce the same card.
func (s *Scheduler) RecordOutcome(ctx context.Context, q sqlx.ExtContext, userID, wordID int64, quality Quality, now time.Time) (*models.ReviewCard, error) {
	if !quality.Valid() {
		return nil, apperrors.Validationf("quality %d out of range 0-5", quality)
	}

	card, err := s.cards.GetByUserAndWord(ctx, q, userID, wordID)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}

	state := NewState()
	if card != nil {
		state = State{
			Interval:    card.Interval,
			EaseFactor:  card.EaseFactor,
			Repetitions: card.Repetitions,
		}
	}
	state = Apply(state, quality)

	updated, err := s.cards.Upsert(ctx, q, &models.ReviewCard{
		UserID:      userID,
		WordID:      wordID,
		Interval:    state.Interval,
		EaseFactor:  state.EaseFactor,
		Repetitions: state.Repetitions,
		NextReview:  now.AddDate(0, 0, state.Interval),
	}, now)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return updated, nil
}

// DueCards returns the user's cards due at now joined with their words,
// most overdue first, capped at limit. This is the read contract the
// learning-session UI consumes.
func (s *Scheduler) DueCards(ctx context.Context, userID int64, now time.Time, limit int) ([]models.DueCard, error) {
	if limit <= 0 {
		return nil, apperrors.Validationf("limit must be positive, got %d", limit)
	}
	cards, err := s.cards.DueCards(ctx, database.DB, userID, now, limit)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	return cards, nil
}

// CountDue returns how many of the user's cards are due at now.
func (s *Scheduler) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	n, err := s.cards.CountDue(ctx, database.DB, userID, now)
	if err != nil {
		return 0, apperrors.Fatal(err)
	}
	return n, nil
}
