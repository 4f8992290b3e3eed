// Package store handles SQLite persistence for the practice history
// log and the user goals.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/keydrill-dev/keydrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access. The history log is append-only from the
// trainer's point of view; Replace exists for bulk import and is
// atomic.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS practice_stats (
			id INTEGER PRIMARY KEY,
			ts TEXT NOT NULL,
			lang TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			errors INTEGER NOT NULL,
			duration_s INTEGER NOT NULL,
			lines_typed INTEGER NOT NULL,
			early_exit INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS practice_key_stats (
			stat_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			errors INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			PRIMARY KEY (stat_id, key)
		);`,
		`CREATE TABLE IF NOT EXISTS goals (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			wpm_goal REAL NOT NULL,
			accuracy_goal REAL NOT NULL,
			time_goal_minutes REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_practice_stats_ts ON practice_stats(ts);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append stores one finished or early-exited session with its per-key
// maps in a single transaction.
func (s *Store) Append(ctx context.Context, rec model.PracticeStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	id, err = insertRecord(ctx, tx, rec)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Replace swaps the whole history log for the provided records. The
// trainer never calls this; it backs import flows, which must be
// atomic so readers never observe a partial log.
func (s *Store) Replace(ctx context.Context, history []model.PracticeStats) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM practice_key_stats`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM practice_stats`); err != nil {
		return err
	}
	for _, rec := range history {
		if _, err = insertRecord(ctx, tx, rec); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertRecord(ctx context.Context, tx *sql.Tx, rec model.PracticeStats) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO practice_stats (ts, lang, wpm, accuracy, errors, duration_s, lines_typed, early_exit)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(time.RFC3339Nano),
		rec.Lang,
		rec.WPM,
		rec.Accuracy,
		rec.Errors,
		rec.DurationS,
		rec.LinesTyped,
		boolToInt(rec.EarlyExit),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.AttemptMap) == 0 && len(rec.ErrorMap) == 0 {
		return id, nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO practice_key_stats (stat_id, key, errors, attempts) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for key, attempts := range rec.AttemptMap {
		if _, err := stmt.ExecContext(ctx, id, key, rec.ErrorMap[key], attempts); err != nil {
			return 0, err
		}
	}
	for key, errs := range rec.ErrorMap {
		if _, ok := rec.AttemptMap[key]; ok {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, key, errs, 0); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// LoadHistory returns the full log in ascending timestamp order with
// the per-key maps attached. Records without key rows get empty maps.
func (s *Store) LoadHistory(ctx context.Context) ([]model.PracticeStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, lang, wpm, accuracy, errors, duration_s, lines_typed, early_exit
		 FROM practice_stats ORDER BY ts ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var history []model.PracticeStats
	var ids []int64
	for rows.Next() {
		var (
			id        int64
			ts        string
			rec       model.PracticeStats
			earlyExit int
		)
		if err := rows.Scan(&id, &ts, &rec.Lang, &rec.WPM, &rec.Accuracy, &rec.Errors, &rec.DurationS, &rec.LinesTyped, &earlyExit); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, err
		}
		rec.Timestamp = parsed
		rec.EarlyExit = earlyExit != 0
		rec.ErrorMap = map[string]int{}
		rec.AttemptMap = map[string]int{}
		history = append(history, rec)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachKeyStats(ctx, history, ids); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Store) attachKeyStats(ctx context.Context, history []model.PracticeStats, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT stat_id, key, errors, attempts FROM practice_key_stats`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var (
			statID         int64
			key            string
			errs, attempts int
		)
		if err := rows.Scan(&statID, &key, &errs, &attempts); err != nil {
			return err
		}
		i, ok := index[statID]
		if !ok {
			continue
		}
		if attempts > 0 {
			history[i].AttemptMap[key] = attempts
		}
		if errs > 0 {
			history[i].ErrorMap[key] = errs
		}
	}
	return rows.Err()
}

// LoadGoals returns the stored goals, or the defaults when the user
// has never edited them.
func (s *Store) LoadGoals(ctx context.Context) (model.Goals, error) {
	var g model.Goals
	err := s.db.QueryRowContext(ctx,
		`SELECT wpm_goal, accuracy_goal, time_goal_minutes FROM goals WHERE id = 1`).
		Scan(&g.WPMGoal, &g.AccuracyGoal, &g.TimeGoalMinutes)
	if err == sql.ErrNoRows {
		return model.DefaultGoals(), nil
	}
	if err != nil {
		return model.Goals{}, err
	}
	return g, nil
}

// SaveGoals upserts the goals singleton.
func (s *Store) SaveGoals(ctx context.Context, g model.Goals) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, wpm_goal, accuracy_goal, time_goal_minutes) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET wpm_goal = excluded.wpm_goal,
			accuracy_goal = excluded.accuracy_goal,
			time_goal_minutes = excluded.time_goal_minutes`,
		g.WPMGoal, g.AccuracyGoal, g.TimeGoalMinutes)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
