package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/isaacjstriker/blockfall/internal/bestscore"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver for local play
)

// ErrPlayerNotFound is returned when a player name has not been claimed.
var ErrPlayerNotFound = errors.New("player not found")

type DB struct {
	conn   *sql.DB
	dbType string // "postgres" or "sqlite3"
}

// GameResult is one finished game.
type GameResult struct {
	ID       int            `json:"id"`
	Player   string         `json:"player"`
	Mode     string         `json:"mode"`
	Score    int            `json:"score"`
	Lines    int            `json:"lines"`
	Level    int            `json:"level"`
	Metadata map[string]any `json:"metadata,omitempty"`
	PlayedAt time.Time      `json:"played_at"`
}

// LeaderboardEntry is one player's summary for a mode.
type LeaderboardEntry struct {
	Player      string    `json:"player"`
	Mode        string    `json:"mode"`
	BestScore   int       `json:"best_score"`
	AvgScore    float64   `json:"avg_score"`
	GamesPlayed int       `json:"games_played"`
	LastPlayed  time.Time `json:"last_played"`
}

// Connect opens a postgres database for postgres:// URLs and a SQLite
// database for sqlite:// URLs, file: URIs, ":memory:" and *.db paths.
func Connect(dbURL string) (*DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	driverName, dsn, err := resolveDriver(dbURL)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if driverName == "sqlite3" {
		// Each SQLite connection to :memory: is its own database, and a
		// single writer avoids "database is locked" on files.
		conn.SetMaxOpenConns(1)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[INFO] Connected to %s database.", driverName)
	return &DB{conn: conn, dbType: driverName}, nil
}

func resolveDriver(dbURL string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return "postgres", dbURL, nil
	case strings.HasPrefix(dbURL, "sqlite://"):
		return "sqlite3", strings.TrimPrefix(dbURL, "sqlite://"), nil
	case strings.HasPrefix(dbURL, "file:"), dbURL == ":memory:",
		strings.HasSuffix(dbURL, ".db"), strings.HasSuffix(dbURL, ".sqlite"):
		return "sqlite3", dbURL, nil
	}
	return "", "", fmt.Errorf("unsupported database type for URL %q", dbURL)
}

// rebind rewrites ? placeholders to $n for postgres.
func (db *DB) rebind(query string) string {
	if db.dbType != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CreateTables creates the necessary database tables
func (db *DB) CreateTables() error {
	var queries []string

	if db.dbType == "postgres" {
		queries = []string{
			`CREATE TABLE IF NOT EXISTS players (
				name VARCHAR(50) PRIMARY KEY,
				pin_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS best_scores (
				score_key VARCHAR(100) PRIMARY KEY,
				score INTEGER NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS game_results (
				id SERIAL PRIMARY KEY,
				player VARCHAR(50) NOT NULL,
				mode VARCHAR(20) NOT NULL,
				score INTEGER NOT NULL,
				lines INTEGER NOT NULL DEFAULT 0,
				level INTEGER NOT NULL DEFAULT 1,
				metadata JSONB,
				played_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_game_results_mode_score ON game_results(mode, score DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_game_results_player ON game_results(player)`,
		}
	} else {
		queries = []string{
			`CREATE TABLE IF NOT EXISTS players (
				name TEXT PRIMARY KEY,
				pin_hash TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS best_scores (
				score_key TEXT PRIMARY KEY,
				score INTEGER NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS game_results (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				player TEXT NOT NULL,
				mode TEXT NOT NULL,
				score INTEGER NOT NULL,
				lines INTEGER NOT NULL DEFAULT 0,
				level INTEGER NOT NULL DEFAULT 1,
				metadata TEXT,
				played_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_game_results_mode_score ON game_results(mode, score DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_game_results_player ON game_results(player)`,
		}
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// CreatePlayer claims name with a hashed PIN.
func (db *DB) CreatePlayer(ctx context.Context, name, pinHash string) error {
	query := db.rebind(`INSERT INTO players (name, pin_hash, created_at) VALUES (?, ?, ?)`)
	if _, err := db.conn.ExecContext(ctx, query, name, pinHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// GetPlayerPINHash returns the PIN hash of a claimed name.
func (db *DB) GetPlayerPINHash(ctx context.Context, name string) (string, error) {
	var hash string
	err := db.conn.QueryRowContext(ctx, db.rebind(`SELECT pin_hash FROM players WHERE name = ?`), name).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPlayerNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get player: %w", err)
	}
	return hash, nil
}

// LoadBest returns the stored best score for key, or bestscore.ErrNotFound.
func (db *DB) LoadBest(ctx context.Context, key string) (int, error) {
	var score int
	err := db.conn.QueryRowContext(ctx, db.rebind(`SELECT score FROM best_scores WHERE score_key = ?`), key).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, bestscore.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load best score: %w", err)
	}
	return score, nil
}

// SaveBest stores score under key, replacing any previous value.
func (db *DB) SaveBest(ctx context.Context, key string, score int) error {
	query := db.rebind(`
		INSERT INTO best_scores (score_key, score, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (score_key) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
	`)
	if _, err := db.conn.ExecContext(ctx, query, key, score, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save best score: %w", err)
	}
	return nil
}

// SaveGameResult records a finished game and fills in its ID.
func (db *DB) SaveGameResult(ctx context.Context, r *GameResult) error {
	var metadataValue any
	if r.Metadata != nil {
		metadataJSON, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataValue = string(metadataJSON) // For SQLite
		if db.dbType == "postgres" {
			metadataValue = metadataJSON // For PostgreSQL JSONB
		}
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now().UTC()
	}

	query := `INSERT INTO game_results (player, mode, score, lines, level, metadata, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	args := []any{r.Player, r.Mode, r.Score, r.Lines, r.Level, metadataValue, r.PlayedAt}

	if db.dbType == "postgres" {
		// lib/pq does not support LastInsertId.
		err := db.conn.QueryRowContext(ctx, db.rebind(query+` RETURNING id`), args...).Scan(&r.ID)
		if err != nil {
			return fmt.Errorf("failed to save game result: %w", err)
		}
		return nil
	}

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get game result ID: %w", err)
	}
	r.ID = int(id)
	return nil
}

// GetLeaderboard ranks players by best score in mode. An empty mode ranks
// across all modes.
func (db *DB) GetLeaderboard(ctx context.Context, mode string, limit int) ([]LeaderboardEntry, error) {
	avg := "AVG(CAST(score AS REAL))"
	if db.dbType == "postgres" {
		avg = "AVG(score)::float8"
	}
	query := `
		SELECT
			player,
			MAX(score) AS best_score,
			` + avg + ` AS avg_score,
			COUNT(id) AS games_played,
			MAX(played_at) AS last_played
		FROM game_results
		WHERE (? = '' OR mode = ?)
		GROUP BY player
		ORDER BY best_score DESC, player
		LIMIT ?
	`

	rows, err := db.conn.QueryContext(ctx, db.rebind(query), mode, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var entry LeaderboardEntry
		var lastPlayed any // SQLite returns the aggregate as a string

		if err := rows.Scan(&entry.Player, &entry.BestScore, &entry.AvgScore, &entry.GamesPlayed, &lastPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.LastPlayed = parseTime(lastPlayed)
		entry.Mode = mode
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return entries, nil
}

// GetPlayerStats summarises one player's games in mode. A player with no
// games gets a zero entry.
func (db *DB) GetPlayerStats(ctx context.Context, player, mode string) (*LeaderboardEntry, error) {
	query := `
		SELECT
			COALESCE(MAX(score), 0),
			COALESCE(AVG(CAST(score AS REAL)), 0),
			COUNT(id),
			MAX(played_at)
		FROM game_results
		WHERE player = ? AND (? = '' OR mode = ?)
	`

	entry := LeaderboardEntry{Player: player, Mode: mode}
	var lastPlayed any
	err := db.conn.QueryRowContext(ctx, db.rebind(query), player, mode, mode).Scan(
		&entry.BestScore, &entry.AvgScore, &entry.GamesPlayed, &lastPlayed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	entry.LastPlayed = parseTime(lastPlayed)
	return &entry, nil
}

var timeFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
}

func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		return parseTime(string(t))
	case string:
		for _, format := range timeFormats {
			if parsed, err := time.Parse(format, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
