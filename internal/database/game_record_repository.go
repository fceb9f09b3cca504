package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/pkg/models"
)

// GameRecordRepository handles database operations for game records
type GameRecordRepository struct{}

// NewGameRecordRepository creates a new repository instance
func NewGameRecordRepository() *GameRecordRepository {
	return &GameRecordRepository{}
}

// Create inserts a game record. Records are never updated afterwards.
func (r *GameRecordRepository) Create(ctx context.Context, q sqlx.ExtContext, rec *models.GameRecord) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO game_records (id, user_id, game_type, score, exp_earned, coins_earned, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.UserID, rec.GameType, rec.Score, rec.ExpEarned, rec.CoinsEarned, rec.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game record: %w", err)
	}
	return nil
}

// History returns the user's latest plays, newest first.
func (r *GameRecordRepository) History(ctx context.Context, q sqlx.ExtContext, userID int64, limit int) ([]models.GameRecord, error) {
	var records []models.GameRecord
	err := sqlx.SelectContext(ctx, q, &records, `
		SELECT * FROM game_records
		WHERE user_id = $1
		ORDER BY played_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get game history: %w", err)
	}
	return records, nil
}

// BestScores returns every play for the game type, best first, joined
// with the player's nickname. The caller deduplicates per learner.
func (r *GameRecordRepository) BestScores(ctx context.Context, q sqlx.ExtContext, gameType string) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := sqlx.SelectContext(ctx, q, &entries, `
		SELECT g.user_id, u.nickname, g.score, g.played_at
		FROM game_records g
		JOIN users u ON u.id = g.user_id
		WHERE g.game_type = $1
		ORDER BY g.score DESC, g.played_at ASC`,
		gameType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard scores: %w", err)
	}
	return entries, nil
}
