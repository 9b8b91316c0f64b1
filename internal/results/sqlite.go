package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/watchers"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS game_results (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id  TEXT NOT NULL,
	winner   TEXT NOT NULL DEFAULT '',
	draw     INTEGER NOT NULL DEFAULT 0,
	reason   TEXT NOT NULL DEFAULT '',
	turns    INTEGER NOT NULL,
	seed     INTEGER NOT NULL,
	episode  INTEGER NOT NULL,
	life     TEXT NOT NULL DEFAULT '{}',
	stats    TEXT NOT NULL DEFAULT '{}',
	ended_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS game_results_winner ON game_results (winner);
`

// SQLiteSink stores results in a local SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and creates the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create result schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Record implements game.ResultSink.
func (s *SQLiteSink) Record(ctx context.Context, r game.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	life, stats, err := encodeMaps(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO game_results (game_id, winner, draw, reason, turns, seed, episode, life, stats, ended_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Winner, r.Draw, r.Reason, r.Turns, r.Seed, r.Episode,
		life, stats, r.EndedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", r.GameID, err)
	}
	return nil
}

// List returns up to limit results, newest first.
func (s *SQLiteSink) List(ctx context.Context, limit int) ([]game.Result, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT game_id, winner, draw, reason, turns, seed, episode, life, stats, ended_at
FROM game_results
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []game.Result
	for rows.Next() {
		var (
			r           game.Result
			life, stats string
			endedAt     int64
		)
		if err := rows.Scan(&r.GameID, &r.Winner, &r.Draw, &r.Reason, &r.Turns, &r.Seed, &r.Episode,
			&life, &stats, &endedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := decodeMaps(&r, life, stats); err != nil {
			return nil, err
		}
		r.EndedAt = time.UnixMilli(endedAt).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Wins counts recorded wins per player.
func (s *SQLiteSink) Wins(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT winner, COUNT(*) FROM game_results WHERE draw = 0 AND winner != '' GROUP BY winner`)
	if err != nil {
		return nil, fmt.Errorf("count wins: %w", err)
	}
	defer rows.Close()

	wins := make(map[string]int)
	for rows.Next() {
		var (
			player string
			n      int
		)
		if err := rows.Scan(&player, &n); err != nil {
			return nil, fmt.Errorf("scan wins: %w", err)
		}
		wins[player] = n
	}
	return wins, rows.Err()
}

// Close releases the database.
func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func encodeMaps(r game.Result) (string, string, error) {
	life, err := json.Marshal(r.Life)
	if err != nil {
		return "", "", fmt.Errorf("encode life totals: %w", err)
	}
	stats, err := json.Marshal(r.Stats)
	if err != nil {
		return "", "", fmt.Errorf("encode stats: %w", err)
	}
	return string(life), string(stats), nil
}

func decodeMaps(r *game.Result, life, stats string) error {
	if err := json.Unmarshal([]byte(life), &r.Life); err != nil {
		return fmt.Errorf("decode life totals: %w", err)
	}
	var s map[string]watchers.PlayerStats
	if err := json.Unmarshal([]byte(stats), &s); err != nil {
		return fmt.Errorf("decode stats: %w", err)
	}
	r.Stats = s
	return nil
}
