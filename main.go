package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/vocabgo/internal/config"
	"github.com/example/vocabgo/internal/dailystats"
	"github.com/example/vocabgo/internal/database"
	"github.com/example/vocabgo/internal/logger"
	"github.com/example/vocabgo/internal/scheduler"
)

func main() {
	cfg := config.Load()

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logg.Sync()

	dsn := cfg.DBPath
	if cfg.DBType == "postgres" {
		dsn = cfg.DBURL
	}
	if err := database.Connect(cfg.DBType, dsn); err != nil {
		logg.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close()

	daily := dailystats.NewAggregator(database.NewDailyStatRepository())
	sched := scheduler.New(
		logg,
		database.NewUserRepository(),
		database.NewReviewCardRepository(),
		daily,
		&scheduler.LogNotifier{Log: logg},
		cfg.ReminderHour,
	)
	sched.Start()
	logg.Info("maintenance daemon started", "db", cfg.DBType, "reminder_hour", cfg.ReminderHour)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logg.Info("shutting down", "signal", sig.String())

	sched.Stop()
}
