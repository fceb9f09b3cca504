// Package scheduler runs the periodic maintenance jobs: due-review
// reminders and the daily streak rollover.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabgo/internal/dailystats"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/internal/logger"
)

// Notifier delivers due-review reminders. The transport behind it
// (push, chat, mail) is outside the progression core.
type Notifier interface {
	SendReviewReminder(userID int64, dueCount int) error
}

// LogNotifier is the default Notifier: it only logs. Deployments plug in
// a real transport.
type LogNotifier struct {
	Log *logger.Logger
}

// SendReviewReminder logs the reminder instead of delivering it.
func (n *LogNotifier) SendReviewReminder(userID int64, dueCount int) error {
	n.Log.Info("review reminder", "user", userID, "due", dueCount)
	return nil
}

// Scheduler manages the application's background jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	log       *logger.Logger
	users     *database.UserRepository
	cards     *database.ReviewCardRepository
	daily     *dailystats.Aggregator
	notifier  Notifier
	// ReminderHour is the UTC hour the reminder job fires at
	reminderHour int
}

// New creates a scheduler instance.
func New(log *logger.Logger, users *database.UserRepository, cards *database.ReviewCardRepository, daily *dailystats.Aggregator, notifier Notifier, reminderHour int) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		log:          log,
		users:        users,
		cards:        cards,
		daily:        daily,
		notifier:     notifier,
		reminderHour: reminderHour,
	}
}

// Start begins running all scheduled jobs in the background.
func (s *Scheduler) Start() {
	// Streak rollover right after the UTC day boundary; reminders at the
	// configured hour.
	s.scheduler.Every(1).Day().At("00:05").Do(s.rolloverStreaks)
	s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.reminderHour)).Do(s.sendDueReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sendDueReminders notifies every learner with at least one due card.
func (s *Scheduler) sendDueReminders() {
	ctx := context.Background()
	due, err := s.cards.UsersWithDue(ctx, database.DB, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to scan due cards", "error", err)
		return
	}
	for _, d := range due {
		if err := s.notifier.SendReviewReminder(d.UserID, d.Due); err != nil {
			s.log.Error("failed to send reminder", "user", d.UserID, "error", err)
		}
	}
	s.log.Info("reminder sweep finished", "learners", len(due))
}

// rolloverStreaks recomputes every learner's streak for the new day.
// A learner who skipped the previous day drops to zero here rather than
// on their next event.
func (s *Scheduler) rolloverStreaks() {
	ctx := context.Background()
	now := time.Now().UTC()
	today := dailystats.DateKey(now)

	ids, err := s.users.ListIDs(ctx, database.DB)
	if err != nil {
		s.log.Error("failed to list users", "error", err)
		return
	}
	for _, id := range ids {
		streak, err := s.daily.Streak(ctx, database.DB, id, today)
		if err != nil {
			s.log.Error("failed to compute streak", "user", id, "error", err)
			continue
		}
		if err := s.users.SetStreak(ctx, database.DB, id, streak, now); err != nil {
			s.log.Error("failed to store streak", "user", id, "error", err)
		}
	}
	s.log.Info("streak rollover finished", "users", len(ids))
}
