package selfplay

import (
	"context"
	"sync"
	"testing"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"github.com/CarterRock49/MTG-AI-Project/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type countingSink struct {
	mu      sync.Mutex
	results []game.Result
}

func (c *countingSink) Record(_ context.Context, r game.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
	return nil
}

func (c *countingSink) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func quickOptions() game.Options {
	opts := game.DefaultOptions()
	opts.AutoPass = true
	opts.MaxTurns = 8
	opts.Seed = 100
	return opts
}

func newRunner(t *testing.T, games, workers int) *Runner {
	return &Runner{
		Table:   cards.Builtin(),
		Options: quickOptions(),
		Games:   games,
		Workers: workers,
		Logger:  zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)),
	}
}

func TestRunPlaysEveryGame(t *testing.T) {
	sink := &countingSink{}
	r := newRunner(t, 6, 3)
	r.Sink = sink

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Games)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, 6, sink.len())

	wins := 0
	for _, n := range summary.Wins {
		wins += n
	}
	assert.Equal(t, 6, wins+summary.Draws)
	assert.Greater(t, summary.AverageTurns(), 0.0)
	require.Len(t, summary.Results, 6)
	for i, res := range summary.Results {
		assert.Equal(t, int64(100+i), res.Seed)
	}
}

func TestRunIsReproducibleAcrossWorkerCounts(t *testing.T) {
	serial, err := newRunner(t, 4, 1).Run(context.Background())
	require.NoError(t, err)
	parallel, err := newRunner(t, 4, 4).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, parallel.Results, len(serial.Results))
	for i := range serial.Results {
		a, b := serial.Results[i], parallel.Results[i]
		assert.Equal(t, a.GameID, b.GameID)
		assert.Equal(t, a.Winner, b.Winner)
		assert.Equal(t, a.Turns, b.Turns)
		assert.Equal(t, a.Life, b.Life)
	}
	assert.Equal(t, serial.Steps, parallel.Steps)
}

func TestRunSavesVerifiableReplays(t *testing.T) {
	dir := t.TempDir()
	r := newRunner(t, 2, 2)
	r.Recorder = game.NewReplayRecorder(r.Logger, dir)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, r.Recorder.Saved())

	replay, err := r.Recorder.Load(summary.Results[0].GameID)
	require.NoError(t, err)
	assert.NoError(t, replay.Verify(context.Background(), r.Table, r.Logger))
}

func TestCancelledRunRecordsNothing(t *testing.T) {
	sink := &countingSink{}
	r := newRunner(t, 5, 2)
	r.Sink = sink

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Games)
	assert.Zero(t, sink.len())
}

func TestStepLimitFailsMatch(t *testing.T) {
	r := newRunner(t, 1, 1)
	r.MaxSteps = 3

	_, err := r.PlayMatch(context.Background(), 0)
	assert.ErrorIs(t, err, ErrStepLimit)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Zero(t, summary.Games)
}

func TestPassiveAgentsDrawOnTurnLimit(t *testing.T) {
	r := newRunner(t, 1, 1)
	r.Agents = func(string, int64) Agent { return PassiveAgent{} }

	out, err := r.PlayMatch(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, out.Result.Draw)
	assert.Equal(t, game.LossTurnLimit, out.Result.Reason)
	assert.Equal(t, map[string]int{"p1": 20, "p2": 20}, out.Result.Life)
}

func TestRandomAgentIsSeeded(t *testing.T) {
	legal := []game.Action{{Kind: game.ActionPass}, {Kind: game.ActionKeepHand}, {Kind: game.ActionMulligan}}
	a, b := NewRandomAgent(4), NewRandomAgent(4)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Choose(game.Observation{}, legal), b.Choose(game.Observation{}, legal))
	}
}

func TestRunnerDrivesTournament(t *testing.T) {
	sink := &countingSink{}
	r := newRunner(t, 0, 1)
	r.Sink = sink

	tour := tournament.NewTournament("decks", 2, 1, 5, r.Logger)
	for _, deck := range r.Table.DeckNames() {
		require.NoError(t, tour.AddPlayer(deck))
	}
	require.NoError(t, tour.Run(context.Background(), r))

	snap := tour.Snapshot()
	assert.Equal(t, "FINISHED", snap.State)
	assert.NotEmpty(t, snap.Winner)
	assert.Equal(t, sink.len(), totalGames(snap))
}

func totalGames(snap tournament.TournamentSnapshot) int {
	n := 0
	for _, round := range snap.Rounds {
		for _, p := range round.Pairings {
			n += p.Player1Wins + p.Player2Wins + p.Draws
		}
	}
	return n
}

func TestPlayGameRejectsSeatMismatch(t *testing.T) {
	r := newRunner(t, 0, 1)
	_, err := r.PlayGame(context.Background(), 1, []string{"red_aggro"})
	assert.Error(t, err)
}
