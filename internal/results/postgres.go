package results

import (
	"context"
	"fmt"

	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS game_results (
	id       BIGSERIAL PRIMARY KEY,
	game_id  TEXT NOT NULL,
	winner   TEXT NOT NULL DEFAULT '',
	draw     BOOLEAN NOT NULL DEFAULT FALSE,
	reason   TEXT NOT NULL DEFAULT '',
	turns    INTEGER NOT NULL,
	seed     BIGINT NOT NULL,
	episode  INTEGER NOT NULL,
	life     TEXT NOT NULL DEFAULT '{}',
	stats    TEXT NOT NULL DEFAULT '{}',
	ended_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS game_results_winner ON game_results (winner);
`

// PostgresSink stores results in PostgreSQL.
type PostgresSink struct{ *pgxpool.Pool }

// OpenPostgres connects to dsn and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to result database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping result database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create result schema: %w", err)
	}
	return &PostgresSink{pool}, nil
}

// Record implements game.ResultSink.
func (s *PostgresSink) Record(ctx context.Context, r game.Result) error {
	life, stats, err := encodeMaps(r)
	if err != nil {
		return err
	}
	_, err = s.Exec(ctx, `
		INSERT INTO game_results (game_id, winner, draw, reason, turns, seed, episode, life, stats, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.GameID, r.Winner, r.Draw, r.Reason, r.Turns, r.Seed, r.Episode, life, stats, r.EndedAt.UTC())
	if err != nil {
		return fmt.Errorf("record result %s: %w", r.GameID, err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresSink) Close() error {
	s.Pool.Close()
	return nil
}
