// Package storage provides SQLite-based persistence for finished play sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for session persistence.
type Store struct {
	db *sql.DB
}

// SessionRecord is one finished client session.
type SessionRecord struct {
	ID        int64
	SessionID string
	Player    string
	Server    string // empty for offline play
	Mode      string
	Kills     int
	Deaths    int
	Score     int
	Shots     int
	Hits      int
	Duration  int // Duration in seconds
	CreatedAt time.Time
}

// PlayerTotals aggregates every session of one player.
type PlayerTotals struct {
	Player      string
	GamesPlayed int
	TotalScore  int64
	BestScore   int
	Kills       int
	Deaths      int
	LastPlayed  time.Time
}

// KD returns kills per death, or kills when the player never died.
func (p PlayerTotals) KD() float64 {
	if p.Deaths == 0 {
		return float64(p.Kills)
	}
	return float64(p.Kills) / float64(p.Deaths)
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
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			server TEXT NOT NULL DEFAULT '',
			mode TEXT NOT NULL DEFAULT '',
			kills INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			shots INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player);
		CREATE INDEX IF NOT EXISTS idx_sessions_top ON sessions(player, score DESC);
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

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	if rec.SessionID == "" {
		return 0, errors.New("storage: session id is required")
	}
	if rec.Player == "" {
		return 0, errors.New("storage: player is required")
	}

	res, err := s.db.Exec(
		`INSERT INTO sessions
		 (session_id, player, server, mode, kills, deaths, score, shots, hits, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Player,
		rec.Server,
		rec.Mode,
		rec.Kills,
		rec.Deaths,
		rec.Score,
		rec.Shots,
		rec.Hits,
		rec.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SessionByID retrieves a session by its session ID.
// Returns nil without error when no such session exists.
func (s *Store) SessionByID(sessionID string) (*SessionRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, session_id, player, server, mode, kills, deaths, score,
		        shots, hits, duration_secs, created_at
		 FROM sessions
		 WHERE session_id = ?`,
		sessionID,
	)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &rec, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
// An empty player matches every player.
func (s *Store) RecentSessions(player string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, player, server, mode, kills, deaths, score,
		        shots, hits, duration_secs, created_at
		 FROM sessions
		 WHERE ? = '' OR player = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var results []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// PlayerTotals retrieves aggregated statistics for one player.
// A player with no sessions yields zero totals.
func (s *Store) PlayerTotals(player string) (*PlayerTotals, error) {
	totals := &PlayerTotals{Player: player}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(score), 0), COALESCE(MAX(score), 0),
		        COALESCE(SUM(kills), 0), COALESCE(SUM(deaths), 0), MAX(created_at)
		 FROM sessions WHERE player = ?`,
		player,
	).Scan(&totals.GamesPlayed, &totals.TotalScore, &totals.BestScore,
		&totals.Kills, &totals.Deaths, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player totals: %w", err)
	}
	totals.LastPlayed = parseTime(lastPlayed)

	return totals, nil
}

// Leaderboard returns per-player totals ordered by total score.
func (s *Store) Leaderboard(limit int) ([]PlayerTotals, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT player, COUNT(*), SUM(score), MAX(score), SUM(kills), SUM(deaths), MAX(created_at)
		 FROM sessions
		 GROUP BY player
		 ORDER BY SUM(score) DESC, player ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var results []PlayerTotals
	for rows.Next() {
		var p PlayerTotals
		var lastPlayed any
		if err := rows.Scan(&p.Player, &p.GamesPlayed, &p.TotalScore, &p.BestScore,
			&p.Kills, &p.Deaths, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan totals row: %w", err)
		}
		p.LastPlayed = parseTime(lastPlayed)
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// ClearSessions deletes all sessions of the given player.
func (s *Store) ClearSessions(player string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE player = ?", player)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var createdAt any
	err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.Player,
		&rec.Server,
		&rec.Mode,
		&rec.Kills,
		&rec.Deaths,
		&rec.Score,
		&rec.Shots,
		&rec.Hits,
		&rec.Duration,
		&createdAt,
	)
	if err != nil {
		return rec, err
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles both time.Time and string datetimes returned by the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
