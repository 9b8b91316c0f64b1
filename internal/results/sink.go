package results

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/CarterRock49/MTG-AI-Project/internal/config"
	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"go.uber.org/zap"
)

// Sink is a game.ResultSink that owns resources.
type Sink interface {
	game.ResultSink
	Close() error
}

// New builds the sink selected by cfg.Driver.
func New(ctx context.Context, cfg config.ResultsConfig, logger *zap.Logger) (Sink, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogSink(logger), nil
	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return Multi(logger, NewLogSink(logger), s), nil
	case "postgres":
		s, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return Multi(logger, NewLogSink(logger), s), nil
	default:
		return nil, fmt.Errorf("unknown results driver %q", cfg.Driver)
	}
}

// LogSink writes every result as one structured log line.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink logging to logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record implements game.ResultSink.
func (s *LogSink) Record(_ context.Context, r game.Result) error {
	if s.logger == nil {
		return nil
	}
	fields := []zap.Field{
		zap.String("game_id", r.GameID),
		zap.String("winner", r.Winner),
		zap.Bool("draw", r.Draw),
		zap.String("reason", r.Reason),
		zap.Int("turns", r.Turns),
		zap.Int64("seed", r.Seed),
		zap.Int("episode", r.Episode),
	}
	for player, life := range r.Life {
		fields = append(fields, zap.Int("life_"+player, life))
	}
	s.logger.Info("game result", fields...)
	return nil
}

// Close implements Sink.
func (s *LogSink) Close() error { return nil }

// MultiSink fans a result out to several sinks.
type MultiSink struct {
	mu     sync.Mutex
	sinks  []Sink
	logger *zap.Logger
}

// Multi combines sinks. Record reports every failing sink.
func Multi(logger *zap.Logger, sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks, logger: logger}
}

// Record implements game.ResultSink.
func (m *MultiSink) Record(ctx context.Context, r game.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, s := range m.sinks {
		if err := s.Record(ctx, r); err != nil {
			if m.logger != nil {
				m.logger.Error("failed to record result",
					zap.String("game_id", r.GameID),
					zap.Error(err),
				)
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
