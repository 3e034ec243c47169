// Package store handles SQLite persistence of finished runs.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/verte-zerg/lenuk/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run results.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy io.Reader
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}
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

func (s *Store) newID(at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(at), s.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			mode TEXT NOT NULL,
			seed TEXT NOT NULL,
			duration INTEGER NOT NULL,
			words INTEGER NOT NULL,
			punctuation INTEGER NOT NULL,
			numbers INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			wpm REAL NOT NULL,
			raw_wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			errors INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			typed_chars INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_char_stats (
			result_id TEXT NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (result_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_result_char_stats_char ON result_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores a finished run and its per-character stats. An empty
// result ID is filled with a new ULID.
func (s *Store) InsertResult(ctx context.Context, result model.Result, chars []model.CharStats) (id string, err error) {
	id = result.ID
	if id == "" {
		if id, err = s.newID(result.FinishedAt); err != nil {
			return "", fmt.Errorf("failed to allocate result id: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, started_at, finished_at, lang, mode, seed, duration, words, punctuation, numbers, difficulty, wpm, raw_wpm, accuracy, errors, correct_chars, typed_chars, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		result.StartedAt.UTC().Format(timeLayout),
		result.FinishedAt.UTC().Format(timeLayout),
		result.Lang,
		result.Mode,
		result.Seed,
		result.Duration,
		result.Words,
		result.Punctuation,
		result.Numbers,
		result.Difficulty,
		result.WPM,
		result.RawWPM,
		result.Accuracy,
		result.Errors,
		result.CorrectChars,
		result.TypedChars,
		result.ElapsedMs,
	)
	if err != nil {
		return "", err
	}

	if len(chars) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO result_char_stats (result_id, char, correct, incorrect)
			 VALUES (?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, id, cs.Char, cs.Correct, cs.Incorrect); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// timeLayout is fixed width so text comparison in SQL matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const resultColumns = `id, started_at, finished_at, lang, mode, seed, duration, words, punctuation, numbers, difficulty, wpm, raw_wpm, accuracy, errors, correct_chars, typed_chars, elapsed_ms`

// ListResults returns results filtered by stats config, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.Result, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "finished_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT %s
		FROM results
		WHERE %s
		ORDER BY finished_at ASC, id ASC`, resultColumns, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// BestResult returns the fastest run for a language, mode and duration. The
// boolean is false when no run matches.
func (s *Store) BestResult(ctx context.Context, lang, mode string, duration int) (model.Result, bool, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s
		FROM results
		WHERE lang = ? AND mode = ? AND duration = ?
		ORDER BY wpm DESC, accuracy DESC, finished_at ASC
		LIMIT 1`, resultColumns), lang, mode, duration)
	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Result{}, false, nil
	}
	if err != nil {
		return model.Result{}, false, err
	}
	return result, true, nil
}

// GetWeakChars aggregates character stats over the most recent runs.
func (s *Store) GetWeakChars(ctx context.Context, window int, lang string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_results AS (
		SELECT id FROM results
		WHERE (? = '' OR lang = ?)
		ORDER BY finished_at DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.correct) AS correct, SUM(cs.incorrect) AS incorrect
	FROM result_char_stats cs
	JOIN recent_results r ON r.id = cs.result_id
	GROUP BY cs.char`

	rows, err := s.db.QueryContext(ctx, query, lang, lang, window)
	if err != nil {
		return nil, err
	}
	return scanCharAggregates(rows)
}

// ListCharAggregatesForResults aggregates per-character stats across runs.
func (s *Store) ListCharAggregatesForResults(ctx context.Context, resultIDs []string) ([]model.CharAggregate, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(resultIDs))
	args := make([]any, len(resultIDs))
	for i, id := range resultIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM result_char_stats
		WHERE result_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanCharAggregates(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (model.Result, error) {
	var r model.Result
	var startedAt, finishedAt string
	if err := row.Scan(&r.ID, &startedAt, &finishedAt, &r.Lang, &r.Mode, &r.Seed, &r.Duration, &r.Words,
		&r.Punctuation, &r.Numbers, &r.Difficulty, &r.WPM, &r.RawWPM, &r.Accuracy, &r.Errors,
		&r.CorrectChars, &r.TypedChars, &r.ElapsedMs); err != nil {
		return model.Result{}, err
	}
	var err error
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.Result{}, err
	}
	if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return model.Result{}, err
	}
	return r, nil
}

func scanCharAggregates(rows *sql.Rows) ([]model.CharAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
