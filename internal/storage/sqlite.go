// Package storage provides SQLite-based persistence for finished quiz runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run results.
type Store struct {
	db *sql.DB
}

// Result is one finished run.
type Result struct {
	ID        int64
	QuizID    string
	Player    string
	Points    int
	Lives     int
	Answered  int
	Total     int
	Completed bool
	Ticks     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quiz_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL,
			lives INTEGER NOT NULL,
			answered INTEGER NOT NULL,
			total INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_quiz_id ON results(quiz_id);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(quiz_id, points DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished run and returns its ID.
func (s *Store) SaveResult(r Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (quiz_id, player, points, lives, answered, total, completed, ticks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.QuizID, r.Player, r.Points, r.Lives, r.Answered, r.Total, r.Completed, r.Ticks,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const resultColumns = `id, quiz_id, player, points, lives, answered, total, completed, ticks, created_at`

// TopResults retrieves the best N runs of a quiz, by points then answered
// questions.
func (s *Store) TopResults(quizID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE quiz_id = ?
		 ORDER BY points DESC, answered DESC, id ASC
		 LIMIT ?`,
		quizID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// RecentResults retrieves the latest runs across all quizzes.
func (s *Store) RecentResults(limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// BestPoints returns the highest score recorded for a quiz.
// Returns 0 if no runs exist.
func (s *Store) BestPoints(quizID string) (int, error) {
	var points sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(points) FROM results WHERE quiz_id = ?",
		quizID,
	).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best points: %w", err)
	}

	if !points.Valid {
		return 0, nil
	}
	return int(points.Int64), nil
}

// ClearResults deletes all runs of a quiz.
func (s *Store) ClearResults(quizID string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE quiz_id = ?", quizID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// QuizStats contains aggregated statistics for a quiz.
type QuizStats struct {
	QuizID     string
	Runs       int
	Completed  int
	BestPoints int
	AvgPoints  float64
	LastPlayed time.Time
}

// GetQuizStats retrieves aggregated statistics for one quiz.
func (s *Store) GetQuizStats(quizID string) (*QuizStats, error) {
	stats := &QuizStats{QuizID: quizID}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(completed), 0), COALESCE(MAX(points), 0),
		        COALESCE(AVG(points), 0), MAX(created_at)
		 FROM results WHERE quiz_id = ?`,
		quizID,
	).Scan(&stats.Runs, &stats.Completed, &stats.BestPoints, &stats.AvgPoints, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get quiz stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllQuizStats retrieves statistics for every quiz that has been played.
func (s *Store) GetAllQuizStats() (map[string]*QuizStats, error) {
	rows, err := s.db.Query(
		`SELECT quiz_id, COUNT(*), SUM(completed), MAX(points), AVG(points), MAX(created_at)
		 FROM results
		 GROUP BY quiz_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all quiz stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*QuizStats)
	for rows.Next() {
		var st QuizStats
		var lastPlayed any
		if err := rows.Scan(&st.QuizID, &st.Runs, &st.Completed, &st.BestPoints, &st.AvgPoints, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.QuizID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt any
		if err := rows.Scan(&r.ID, &r.QuizID, &r.Player, &r.Points, &r.Lives,
			&r.Answered, &r.Total, &r.Completed, &r.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// parseTime handles both driver-decoded times and SQLite text timestamps.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
