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

// UserRepository handles database operations for learner accounts
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByID returns the user with the given id, or (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, q, &user, "SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, q sqlx.ExtContext, user *models.User) error {
	id, err := insertID(ctx, q, `
		INSERT INTO users (username, nickname, exp, level, coins, streak)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.Username, user.Nickname, user.Exp, user.Level, user.Coins, user.Streak,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

// AddReward applies experience and coin deltas and stores the
// recomputed level. The deltas are added in SQL so the increment itself
// cannot be lost to a concurrent writer.
func (r *UserRepository) AddReward(ctx context.Context, q sqlx.ExtContext, userID int64, expDelta, coinDelta, newLevel int, now time.Time) error {
	res, err := q.ExecContext(ctx, `
		UPDATE users SET
			exp = exp + $1,
			coins = coins + $2,
			level = $3,
			updated_at = $4
		WHERE id = $5`,
		expDelta, coinDelta, newLevel, now, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply reward: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetStreak stores a recomputed streak value.
func (r *UserRepository) SetStreak(ctx context.Context, q sqlx.ExtContext, userID int64, streak int, now time.Time) error {
	_, err := q.ExecContext(ctx,
		"UPDATE users SET streak = $1, updated_at = $2 WHERE id = $3",
		streak, now, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set streak: %w", err)
	}
	return nil
}

// ListIDs returns all user ids, for maintenance sweeps.
func (r *UserRepository) ListIDs(ctx context.Context, q sqlx.ExtContext) ([]int64, error) {
	var ids []int64
	err := sqlx.SelectContext(ctx, q, &ids, "SELECT id FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}
