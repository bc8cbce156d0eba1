// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mood

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrInvalidLevel = errors.New("mood level out of range")
)

// =============================================================================
// ENTRY
// =============================================================================

// Entry is one recorded check-in.
type Entry struct {
	ID         int64
	UserID     string
	Level      Level
	Note       string
	RecordedAt time.Time
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker stores mood check-ins in a local SQLite database.
type Tracker struct {
	db *sql.DB
}

// Open opens (or creates) the mood database at the given path.
func Open(path string) (*Tracker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating mood directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening mood database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS mood_entries (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     TEXT NOT NULL,
		level       INTEGER NOT NULL CHECK (level BETWEEN 1 AND 5),
		note        TEXT NOT NULL DEFAULT '',
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_mood_user_time ON mood_entries(user_id, recorded_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating mood schema: %w", err)
	}

	return &Tracker{db: db}, nil
}

// Close closes the database.
func (t *Tracker) Close() error {
	return t.db.Close()
}

// Record stores a check-in for the user at the current time.
func (t *Tracker) Record(ctx context.Context, userID string, level Level, note string) (Entry, error) {
	return t.recordAt(ctx, userID, level, note, time.Now())
}

func (t *Tracker) recordAt(ctx context.Context, userID string, level Level, note string, at time.Time) (Entry, error) {
	if !level.Valid() {
		return Entry{}, ErrInvalidLevel
	}

	res, err := t.db.ExecContext(ctx,
		`INSERT INTO mood_entries (user_id, level, note, recorded_at) VALUES (?, ?, ?, ?)`,
		userID, int(level), note, at.Unix())
	if err != nil {
		return Entry{}, fmt.Errorf("recording mood: %w", err)
	}
	id, _ := res.LastInsertId()

	return Entry{ID: id, UserID: userID, Level: level, Note: note, RecordedAt: at}, nil
}

// Recent returns the user's latest check-ins, newest first, up to limit.
func (t *Tracker) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := t.db.QueryContext(ctx,
		`SELECT id, user_id, level, note, recorded_at
		 FROM mood_entries WHERE user_id = ?
		 ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading mood entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Since returns the user's check-ins recorded on or after the cutoff,
// oldest first.
func (t *Tracker) Since(ctx context.Context, userID string, cutoff time.Time) ([]Entry, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, user_id, level, note, recorded_at
		 FROM mood_entries WHERE user_id = ? AND recorded_at >= ?
		 ORDER BY recorded_at ASC, id ASC`,
		userID, cutoff.Unix())
	if err != nil {
		return nil, fmt.Errorf("loading mood entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Average returns the mean score of the user's check-ins since the
// cutoff, and the number of entries. Zero entries returns (0, 0, nil).
func (t *Tracker) Average(ctx context.Context, userID string, cutoff time.Time) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := t.db.QueryRowContext(ctx,
		`SELECT AVG(level * 2), COUNT(*)
		 FROM mood_entries WHERE user_id = ? AND recorded_at >= ?`,
		userID, cutoff.Unix()).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("averaging mood: %w", err)
	}
	if !avg.Valid {
		return 0, 0, nil
	}
	return avg.Float64, count, nil
}

// DeleteUser removes every check-in for the user. Used when the user
// asks to wipe local data.
func (t *Tracker) DeleteUser(ctx context.Context, userID string) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("deleting mood entries: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var level int
		var ts int64
		if err := rows.Scan(&e.ID, &e.UserID, &level, &e.Note, &ts); err != nil {
			return nil, fmt.Errorf("scanning mood entry: %w", err)
		}
		e.Level = Level(level)
		e.RecordedAt = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
