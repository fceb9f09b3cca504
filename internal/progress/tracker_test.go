package progress

import (
	"context"
	"sync"
	"testing"
	"time"

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

func seedUserAndWord(t *testing.T) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Username: "tester", Level: 1}
	if err := database.NewUserRepository().Create(ctx, database.DB, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	word := &models.Word{Word: "ephemeral", Meaning: "short-lived", Difficulty: 2}
	if err := database.NewWordRepository().Create(ctx, database.DB, word); err != nil {
		t.Fatalf("failed to seed word: %v", err)
	}
	return user.ID, word.ID
}

func TestRecordAnswerCreatesLearningRow(t *testing.T) {
	setupDB(t)
	userID, wordID := seedUserAndWord(t)
	tracker := NewTracker(database.NewWordProgressRepository(), 0)
	now := time.Now().UTC()

	row, err := tracker.RecordAnswer(context.Background(), database.DB, userID, wordID, true, now)
	if err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if row.Status != models.StatusLearning {
		t.Errorf("status = %s, want learning", row.Status)
	}
	if row.CorrectCount != 1 || row.WrongCount != 0 {
		t.Errorf("counters = %d/%d, want 1/0", row.CorrectCount, row.WrongCount)
	}
	if row.LastReviewAt == nil {
		t.Error("last review timestamp not set")
	}
}

func TestRecordAnswerCountsExactly(t *testing.T) {
	setupDB(t)
	userID, wordID := seedUserAndWord(t)
	tracker := NewTracker(database.NewWordProgressRepository(), 0)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := tracker.RecordAnswer(ctx, database.DB, userID, wordID, true, now); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	row, err := tracker.RecordAnswer(ctx, database.DB, userID, wordID, true, now)
	if err != nil {
		t.Fatalf("second answer: %v", err)
	}
	if row.CorrectCount != 2 {
		t.Errorf("correct count = %d after two answers, want exactly 2", row.CorrectCount)
	}
}

func TestRecordAnswerConcurrentIncrements(t *testing.T) {
	setupDB(t)
	userID, wordID := seedUserAndWord(t)
	tracker := NewTracker(database.NewWordProgressRepository(), 0)
	ctx := context.Background()
	now := time.Now().UTC()

	const answers = 8
	var wg sync.WaitGroup
	errs := make(chan error, answers)
	for i := 0; i < answers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tracker.RecordAnswer(ctx, database.DB, userID, wordID, true, now); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent answer: %v", err)
	}

	row, err := database.NewWordProgressRepository().GetByUserAndWord(ctx, database.DB, userID, wordID)
	if err != nil {
		t.Fatalf("GetByUserAndWord: %v", err)
	}
	if row.CorrectCount != answers {
		t.Errorf("correct count = %d, want %d (no lost increments)", row.CorrectCount, answers)
	}
}

func TestMasteryPromotion(t *testing.T) {
	setupDB(t)
	userID, wordID := seedUserAndWord(t)
	tracker := NewTracker(database.NewWordProgressRepository(), 3)
	ctx := context.Background()
	now := time.Now().UTC()

	var row *models.WordProgress
	var err error
	for i := 0; i < 2; i++ {
		if row, err = tracker.RecordAnswer(ctx, database.DB, userID, wordID, true, now); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if row.Status != models.StatusLearning {
			t.Fatalf("answer %d: status = %s, want still learning", i, row.Status)
		}
	}

	if row, err = tracker.RecordAnswer(ctx, database.DB, userID, wordID, true, now); err != nil {
		t.Fatalf("third answer: %v", err)
	}
	if row.Status != models.StatusMastered {
		t.Errorf("status = %s after 3 consecutive correct, want mastered", row.Status)
	}
	if row.ConsecutiveRight != 3 {
		t.Errorf("consecutive right = %d, want 3", row.ConsecutiveRight)
	}
}

func TestMissResetsStreakButNotCounters(t *testing.T) {
	setupDB(t)
	userID, wordID := seedUserAndWord(t)
	tracker := NewTracker(database.NewWordProgressRepository(), 3)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 2; i++ {
		if _, err := tracker.RecordAnswer(ctx, database.DB, userID, wordID, true, now); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	row, err := tracker.RecordAnswer(ctx, database.DB, userID, wordID, false, now)
	if err != nil {
		t.Fatalf("miss: %v", err)
	}
	if row.ConsecutiveRight != 0 {
		t.Errorf("consecutive right = %d after a miss, want 0", row.ConsecutiveRight)
	}
	if row.CorrectCount != 2 || row.WrongCount != 1 {
		t.Errorf("counters = %d/%d, want 2/1 (monotonic)", row.CorrectCount, row.WrongCount)
	}
	if row.Status != models.StatusLearning {
		t.Errorf("status = %s, want learning", row.Status)
	}
}

func TestMasteredIsSticky(t *testing.T) {
	setupDB(t)
	userID, wordID := seedUserAndWord(t)
	tracker := NewTracker(database.NewWordProgressRepository(), 2)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 2; i++ {
		if _, err := tracker.RecordAnswer(ctx, database.DB, userID, wordID, true, now); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	row, err := tracker.RecordAnswer(ctx, database.DB, userID, wordID, false, now)
	if err != nil {
		t.Fatalf("miss: %v", err)
	}
	if row.Status != models.StatusMastered {
		t.Errorf("status = %s after a miss on a mastered word, want mastered to stick", row.Status)
	}
}

func TestSummarize(t *testing.T) {
	setupDB(t)
	userID, wordID := seedUserAndWord(t)
	word2 := &models.Word{Word: "ubiquitous", Meaning: "everywhere", Difficulty: 3}
	if err := database.NewWordRepository().Create(context.Background(), database.DB, word2); err != nil {
		t.Fatalf("failed to seed second word: %v", err)
	}

	tracker := NewTracker(database.NewWordProgressRepository(), 1)
	ctx := context.Background()
	now := time.Now().UTC()

	// First word mastered on its first correct answer (threshold 1),
	// second word only touched with a miss.
	if _, err := tracker.RecordAnswer(ctx, database.DB, userID, wordID, true, now); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := tracker.RecordAnswer(ctx, database.DB, userID, word2.ID, false, now); err != nil {
		t.Fatalf("miss: %v", err)
	}

	summary, err := tracker.Summarize(ctx, userID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.TotalWords != 2 || summary.MasteredWords != 1 {
		t.Errorf("summary = %+v, want 2 total, 1 mastered", summary)
	}
}
