// Package reward converts learning and game events into experience and
// coin deltas and recomputes learner levels. Every caller that touches
// exp, coins or level funnels through the Engine so the leveling formula
// lives in exactly one place.
package reward

import (
	"context"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgo/internal/apperrors"
	"github.com/example/vocabgo/internal/database"
)

// ExpPerLevel is the experience span of one level.
const ExpPerLevel = 100

// GameConfig is the fixed reward configuration of one game type.
type GameConfig struct {
	ExpReward  int
	CoinReward int
	MaxScore   int
}

// DefaultGameCatalog returns the built-in game catalog. It is resolved
// once at startup; unknown game types are rejected at the door instead
// of failing deep in the arithmetic.
func DefaultGameCatalog() map[string]GameConfig {
	return map[string]GameConfig{
		"sprint": {ExpReward: 50, CoinReward: 10, MaxScore: 100},
		"target": {ExpReward: 60, CoinReward: 15, MaxScore: 100},
		"match":  {ExpReward: 40, CoinReward: 8, MaxScore: 50},
		"quiz":   {ExpReward: 30, CoinReward: 5, MaxScore: 30},
	}
}

// ReviewPolicy holds the fixed deltas awarded for review answers.
type ReviewPolicy struct {
	CorrectExp   int
	CorrectCoins int
	WrongExp     int
	WrongCoins   int
}

// DefaultReviewPolicy awards +10 exp / +1 coin for a correct recall and
// +2 exp for an incorrect one.
func DefaultReviewPolicy() ReviewPolicy {
	return ReviewPolicy{CorrectExp: 10, CorrectCoins: 1, WrongExp: 2, WrongCoins: 0}
}

// LevelForExp derives the level for an experience total.
func LevelForExp(exp int) int {
	return exp/ExpPerLevel + 1
}

// Result reports the account after one reward application.
type Result struct {
	ExpEarned   int  `json:"exp_earned"`
	CoinsEarned int  `json:"coins_earned"`
	NewExp      int  `json:"new_exp"`
	NewLevel    int  `json:"new_level"`
	LeveledUp   bool `json:"leveled_up"`
}

// Engine owns the read-modify-write on learner accounts.
type Engine struct {
	users   *database.UserRepository
	catalog map[string]GameConfig
	policy  ReviewPolicy
}

// NewEngine creates an engine. A nil catalog selects the default game
// catalog; a zero policy selects the default review policy.
func NewEngine(users *database.UserRepository, catalog map[string]GameConfig, policy ReviewPolicy) *Engine {
	if catalog == nil {
		catalog = DefaultGameCatalog()
	}
	if policy == (ReviewPolicy{}) {
		policy = DefaultReviewPolicy()
	}
	return &Engine{users: users, catalog: catalog, policy: policy}
}

// ApplyReward adds the deltas to the learner's account and recomputes
// the level. Deltas are never negative; this engine cannot take
// experience away.
func (e *Engine) ApplyReward(ctx context.Context, q sqlx.ExtContext, userID int64, expDelta, coinDelta int) (*Result, error) {
	if expDelta < 0 || coinDelta < 0 {
		return nil, apperrors.Validationf("reward deltas must be non-negative, got exp=%d coins=%d", expDelta, coinDelta)
	}

	user, err := e.users.GetByID(ctx, q, userID)
	if err != nil {
		return nil, apperrors.Fatal(err)
	}
	if user == nil {
		return nil, apperrors.NotFoundf("user %d", userID)
	}

	newExp := user.Exp + expDelta
	newLevel := LevelForExp(newExp)
	if err := e.users.AddReward(ctx, q, userID, expDelta, coinDelta, newLevel, time.Now().UTC()); err != nil {
		return nil, apperrors.Fatal(err)
	}

	return &Result{
		ExpEarned:   expDelta,
		CoinsEarned: coinDelta,
		NewExp:      newExp,
		NewLevel:    newLevel,
		LeveledUp:   newLevel > user.Level,
	}, nil
}

// GameReward computes the exp/coin deltas for a raw game score, scaled
// by score/maxScore and rounded.
func (e *Engine) GameReward(gameType string, score int) (expEarned, coinsEarned int, err error) {
	cfg, ok := e.catalog[gameType]
	if !ok {
		return 0, 0, apperrors.NotFoundf("game type %q", gameType)
	}
	if score < 0 || score > cfg.MaxScore {
		return 0, 0, apperrors.Validationf("score %d out of range 0-%d for %s", score, cfg.MaxScore, gameType)
	}
	ratio := float64(score) / float64(cfg.MaxScore)
	expEarned = int(math.Round(float64(cfg.ExpReward) * ratio))
	coinsEarned = int(math.Round(float64(cfg.CoinReward) * ratio))
	return expEarned, coinsEarned, nil
}

// HasGame reports whether the game type exists in the catalog.
func (e *Engine) HasGame(gameType string) bool {
	_, ok := e.catalog[gameType]
	return ok
}

// ReviewReward returns the fixed deltas for one review answer.
func (e *Engine) ReviewReward(correct bool) (expEarned, coinsEarned int) {
	if correct {
		return e.policy.CorrectExp, e.policy.CorrectCoins
	}
	return e.policy.WrongExp, e.policy.WrongCoins
}
