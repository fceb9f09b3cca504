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

// ReviewCardRepository handles database operations for review cards
type ReviewCardRepository struct{}

// NewReviewCardRepository creates a new repository instance
func NewReviewCardRepository() *ReviewCardRepository {
	return &ReviewCardRepository{}
}

// GetByUserAndWord returns the card for (user, word), or (nil, nil) when
// the word has never been reviewed.
func (r *ReviewCardRepository) GetByUserAndWord(ctx context.Context, q sqlx.ExtContext, userID, wordID int64) (*models.ReviewCard, error) {
	var card models.ReviewCard
	err := sqlx.GetContext(ctx, q, &card,
		"SELECT * FROM review_cards WHERE user_id = $1 AND word_id = $2", userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review card: %w", err)
	}
	return &card, nil
}

// Upsert stores the full recomputed scheduling state for (user, word).
func (r *ReviewCardRepository) Upsert(ctx context.Context, q sqlx.ExtContext, card *models.ReviewCard, now time.Time) (*models.ReviewCard, error) {
	_, err := q.ExecContext(ctx, `
		INSERT INTO review_cards (
			user_id, word_id, "interval", ease_factor, repetitions,
			next_review, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			"interval" = excluded."interval",
			ease_factor = excluded.ease_factor,
			repetitions = excluded.repetitions,
			next_review = excluded.next_review,
			updated_at = excluded.updated_at`,
		card.UserID, card.WordID, card.Interval, card.EaseFactor,
		card.Repetitions, card.NextReview, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert review card: %w", err)
	}
	return r.GetByUserAndWord(ctx, q, card.UserID, card.WordID)
}

// DueCards returns cards with next_review <= now joined with their
// words, most overdue first, capped at limit.
func (r *ReviewCardRepository) DueCards(ctx context.Context, q sqlx.ExtContext, userID int64, now time.Time, limit int) ([]models.DueCard, error) {
	var cards []models.DueCard
	err := sqlx.SelectContext(ctx, q, &cards, `
		SELECT c.word_id, w.word, w.phonetic, w.meaning,
		       c."interval", c.repetitions, c.next_review
		FROM review_cards c
		JOIN words w ON w.id = c.word_id
		WHERE c.user_id = $1 AND c.next_review <= $2
		ORDER BY c.next_review ASC
		LIMIT $3`,
		userID, now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get due cards: %w", err)
	}
	return cards, nil
}

// CountDue returns how many of a user's cards are due at now.
func (r *ReviewCardRepository) CountDue(ctx context.Context, q sqlx.ExtContext, userID int64, now time.Time) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		"SELECT COUNT(*) FROM review_cards WHERE user_id = $1 AND next_review <= $2", userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards: %w", err)
	}
	return n, nil
}

// DueSummary is one learner's due-card count, used by the reminder job.
type DueSummary struct {
	UserID int64 `db:"user_id"`
	Due    int   `db:"due"`
}

// UsersWithDue returns, for every learner with at least one due card,
// how many cards are waiting.
func (r *ReviewCardRepository) UsersWithDue(ctx context.Context, q sqlx.ExtContext, now time.Time) ([]DueSummary, error) {
	var out []DueSummary
	err := sqlx.SelectContext(ctx, q, &out, `
		SELECT user_id, COUNT(*) AS due
		FROM review_cards
		WHERE next_review <= $1
		GROUP BY user_id
		ORDER BY user_id`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get users with due cards: %w", err)
	}
	return out, nil
}
