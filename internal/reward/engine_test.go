package reward

import (
	"context"
	"errors"
	"testing"

	"github.com/example/vocabgo/internal/apperrors"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/pkg/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	if err := database.Connect("sqlite", ":memory:"); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
}

func seedUser(t *testing.T, exp, level, coins int) int64 {
	t.Helper()
	user := &models.User{Username: "tester", Exp: exp, Level: level, Coins: coins}
	if err := database.NewUserRepository().Create(context.Background(), database.DB, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user.ID
}

func TestLevelForExp(t *testing.T) {
	tests := []struct {
		exp, want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{150, 2},
		{200, 3},
		{999, 10},
	}
	for _, tt := range tests {
		if got := LevelForExp(tt.exp); got != tt.want {
			t.Errorf("LevelForExp(%d) = %d, want %d", tt.exp, got, tt.want)
		}
	}
}

func TestApplyRewardLevelsUp(t *testing.T) {
	setupDB(t)
	userID := seedUser(t, 90, 1, 5)
	engine := NewEngine(database.NewUserRepository(), nil, ReviewPolicy{})

	res, err := engine.ApplyReward(context.Background(), database.DB, userID, 60, 3)
	if err != nil {
		t.Fatalf("ApplyReward: %v", err)
	}
	if res.NewExp != 150 || res.NewLevel != 2 || !res.LeveledUp {
		t.Errorf("result = %+v, want exp 150, level 2, leveled up", res)
	}

	user, err := database.NewUserRepository().GetByID(context.Background(), database.DB, userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Exp != 150 || user.Level != 2 || user.Coins != 8 {
		t.Errorf("stored account = exp %d level %d coins %d, want 150, 2, 8", user.Exp, user.Level, user.Coins)
	}
}

func TestApplyRewardNoLevelChange(t *testing.T) {
	setupDB(t)
	userID := seedUser(t, 10, 1, 0)
	engine := NewEngine(database.NewUserRepository(), nil, ReviewPolicy{})

	res, err := engine.ApplyReward(context.Background(), database.DB, userID, 10, 1)
	if err != nil {
		t.Fatalf("ApplyReward: %v", err)
	}
	if res.LeveledUp || res.NewLevel != 1 || res.NewExp != 20 {
		t.Errorf("result = %+v, want exp 20, level 1, no level-up", res)
	}
}

func TestApplyRewardRejectsNegativeDeltas(t *testing.T) {
	setupDB(t)
	userID := seedUser(t, 0, 1, 0)
	engine := NewEngine(database.NewUserRepository(), nil, ReviewPolicy{})

	if _, err := engine.ApplyReward(context.Background(), database.DB, userID, -1, 0); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("negative exp: error = %v, want ErrValidation", err)
	}
	if _, err := engine.ApplyReward(context.Background(), database.DB, userID, 0, -1); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("negative coins: error = %v, want ErrValidation", err)
	}
}

func TestApplyRewardUnknownUser(t *testing.T) {
	setupDB(t)
	engine := NewEngine(database.NewUserRepository(), nil, ReviewPolicy{})

	_, err := engine.ApplyReward(context.Background(), database.DB, 404, 10, 0)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGameReward(t *testing.T) {
	engine := NewEngine(nil, nil, ReviewPolicy{})

	tests := []struct {
		gameType              string
		score, wantExp, wantCoins int
	}{
		{"sprint", 100, 50, 10},
		{"sprint", 0, 0, 0},
		{"target", 50, 30, 8}, // round(60*0.5)=30, round(15*0.5)=8
		{"match", 50, 40, 8},
		{"match", 25, 20, 4},
		{"quiz", 30, 30, 5},
		{"quiz", 15, 15, 3}, // round(5*0.5)=3
	}
	for _, tt := range tests {
		exp, coins, err := engine.GameReward(tt.gameType, tt.score)
		if err != nil {
			t.Errorf("GameReward(%s, %d): %v", tt.gameType, tt.score, err)
			continue
		}
		if exp != tt.wantExp || coins != tt.wantCoins {
			t.Errorf("GameReward(%s, %d) = %d exp, %d coins, want %d and %d",
				tt.gameType, tt.score, exp, coins, tt.wantExp, tt.wantCoins)
		}
	}
}

func TestGameRewardRejectsBadInput(t *testing.T) {
	engine := NewEngine(nil, nil, ReviewPolicy{})

	if _, _, err := engine.GameReward("chess", 10); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unknown game: error = %v, want ErrNotFound", err)
	}
	if _, _, err := engine.GameReward("quiz", 31); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("score above max: error = %v, want ErrValidation", err)
	}
	if _, _, err := engine.GameReward("sprint", -1); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("negative score: error = %v, want ErrValidation", err)
	}
}

func TestReviewReward(t *testing.T) {
	engine := NewEngine(nil, nil, ReviewPolicy{})

	if exp, coins := engine.ReviewReward(true); exp != 10 || coins != 1 {
		t.Errorf("correct recall = %d exp, %d coins, want 10 and 1", exp, coins)
	}
	if exp, coins := engine.ReviewReward(false); exp != 2 || coins != 0 {
		t.Errorf("incorrect recall = %d exp, %d coins, want 2 and 0", exp, coins)
	}
}
