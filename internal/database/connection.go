package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/example/vocabgo/internal/apperrors"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. dbType is "sqlite"
// or "postgres"; dsn is the sqlite file path or the postgres URL.
func Connect(dbType, dsn string) error {
	switch dbType {
	case "", "sqlite":
		if dsn == "" {
			dsn = filepath.Join("data", "vocabgo.db")
		}
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err := sqlx.Connect("sqlite3", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		DB = db
	case "postgres":
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		db.SetMaxOpenConns(10)
		DB = db
	default:
		return fmt.Errorf("unknown DB_TYPE %q", dbType)
	}

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// txAttempts is the retry budget for one event transaction.
const txAttempts = 3

// InTx runs fn inside a transaction. The transaction is retried when the
// backend reports lock/serialization contention; once the budget is
// exhausted the whole event fails with ErrConflict and nothing is
// applied.
func InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		tx, err := DB.BeginTxx(ctx, nil)
		if err != nil {
			return apperrors.Fatal(err)
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			if retriable(err) {
				lastErr = err
				continue
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			if retriable(err) {
				lastErr = err
				continue
			}
			return apperrors.Fatal(err)
		}
		return nil
	}
	return apperrors.Conflictf("transaction retries exhausted: %v", lastErr)
}

// retriable reports whether err is transient write contention.
func retriable(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		// serialization_failure, deadlock_detected
		return pe.Code == "40001" || pe.Code == "40P01"
	}
	return false
}

// insertID runs an INSERT and returns the generated row id, papering
// over the drivers' RETURNING/LastInsertId split.
func insertID(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	if q.DriverName() == "postgres" {
		var id int64
		err := sqlx.GetContext(ctx, q, &id, query+" RETURNING id", args...)
		return id, err
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// serialPK returns the auto-increment primary key clause for the active
// driver.
func serialPK() string {
	if DB.DriverName() == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	stmts := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			id %s,
			username TEXT UNIQUE NOT NULL,
			nickname TEXT NOT NULL DEFAULT '',
			exp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			coins INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, serialPK()),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS words (
			id %s,
			word TEXT NOT NULL,
			phonetic TEXT NOT NULL DEFAULT '',
			meaning TEXT NOT NULL DEFAULT '',
			example TEXT NOT NULL DEFAULT '',
			difficulty INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, serialPK()),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS word_progress (
			id %s,
			user_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'learning',
			correct_count INTEGER NOT NULL DEFAULT 0,
			wrong_count INTEGER NOT NULL DEFAULT 0,
			consecutive_right INTEGER NOT NULL DEFAULT 0,
			last_review_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (word_id) REFERENCES words(id),
			UNIQUE(user_id, word_id)
		)`, serialPK()),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS review_cards (
			id %s,
			user_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			"interval" INTEGER NOT NULL DEFAULT 1,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			repetitions INTEGER NOT NULL DEFAULT 0,
			next_review TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (word_id) REFERENCES words(id),
			UNIQUE(user_id, word_id)
		)`, serialPK()),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS wrong_words (
			id %s,
			user_id INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			wrong_count INTEGER NOT NULL DEFAULT 1,
			category TEXT NOT NULL DEFAULT 'spelling',
			last_wrong_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (word_id) REFERENCES words(id),
			UNIQUE(user_id, word_id)
		)`, serialPK()),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS daily_stats (
			id %s,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			words_learned INTEGER NOT NULL DEFAULT 0,
			games_played INTEGER NOT NULL DEFAULT 0,
			exp_earned INTEGER NOT NULL DEFAULT 0,
			coins_earned INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE(user_id, date)
		)`, serialPK()),
		`
		CREATE TABLE IF NOT EXISTS game_records (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			game_type TEXT NOT NULL,
			score INTEGER NOT NULL,
			exp_earned INTEGER NOT NULL,
			coins_earned INTEGER NOT NULL,
			played_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_review_cards_due ON review_cards(user_id, next_review)`,
		`CREATE INDEX IF NOT EXISTS idx_game_records_type ON game_records(game_type, score)`,
	}

	for _, stmt := range stmts {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
