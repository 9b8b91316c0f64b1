package results

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/CarterRock49/MTG-AI-Project/internal/config"
	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/watchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func sampleResult(id, winner string) game.Result {
	return game.Result{
		GameID:  id,
		Winner:  winner,
		Reason:  game.LossLife,
		Turns:   9,
		Life:    map[string]int{"p1": 4, "p2": 0},
		Stats:   map[string]watchers.PlayerStats{"p1": {SpellsCast: 3, DamageToPlayers: 20}},
		Seed:    7,
		Episode: 2,
		EndedAt: time.UnixMilli(1700000000000).UTC(),
	}
}

func TestSQLiteSinkRecordsResults(t *testing.T) {
	ctx := context.Background()
	sink, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Record(ctx, sampleResult("g1", "p1")))
	require.NoError(t, sink.Record(ctx, sampleResult("g2", "p1")))
	draw := sampleResult("g3", "")
	draw.Draw = true
	require.NoError(t, sink.Record(ctx, draw))

	list, err := sink.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "g3", list[0].GameID)
	assert.True(t, list[0].Draw)
	assert.Equal(t, sampleResult("g1", "p1"), list[2])

	wins, err := sink.Wins(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2}, wins)
}

func TestSQLiteSinkReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.db")
	sink, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, sink.Record(ctx, sampleResult("g1", "p2")))
	require.NoError(t, sink.Close())

	sink, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer sink.Close()
	list, err := sink.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].Winner)
}

func TestSQLiteSinkRejectsCancelledContext(t *testing.T) {
	sink, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Record(ctx, sampleResult("g1", "p1")), context.Canceled)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	require.NoError(t, sink.Record(context.Background(), sampleResult("g1", "p1")))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "game result", entry.Message)
	assert.Equal(t, "p1", entry.ContextMap()["winner"])
	assert.EqualValues(t, 4, entry.ContextMap()["life_p1"])

	assert.NoError(t, NewLogSink(nil).Record(context.Background(), sampleResult("g2", "p1")))
}

type failingSink struct{ calls int }

func (f *failingSink) Record(context.Context, game.Result) error {
	f.calls++
	return errors.New("disk full")
}

func (f *failingSink) Close() error { return nil }

func TestMultiSinkReportsFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bad := &failingSink{}
	multi := Multi(zap.New(core), NewLogSink(zaptest.NewLogger(t)), bad)

	err := multi.Record(context.Background(), sampleResult("g1", "p1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, bad.calls)
	assert.Equal(t, 1, logs.FilterMessage("failed to record result").Len())
	assert.NoError(t, multi.Close())
}

func TestNewSelectsDriver(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	sink, err := New(ctx, config.ResultsConfig{Driver: "log"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogSink{}, sink)

	sink, err = New(ctx, config.ResultsConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "r.db")}, logger)
	require.NoError(t, err)
	require.NoError(t, sink.Record(ctx, sampleResult("g1", "p1")))
	require.NoError(t, sink.Close())

	_, err = New(ctx, config.ResultsConfig{Driver: "kafka"}, logger)
	assert.Error(t, err)
}
