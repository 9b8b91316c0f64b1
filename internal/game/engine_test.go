package game

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type recordingSink struct {
	mu      sync.Mutex
	results []Result
}

func (s *recordingSink) Record(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func quietEngine(t *testing.T, opts Options, sink ResultSink) *Engine {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
	e, err := NewEngine(cards.Builtin(), opts, logger, sink)
	require.NoError(t, err)
	return e
}

// playRandom steps e with uniformly random legal actions until the game ends or
// maxSteps actions were taken, checking engine invariants after every step.
func playRandom(t *testing.T, e *Engine, rng *rand.Rand, maxSteps int) StepResult {
	t.Helper()
	ctx := context.Background()
	var last StepResult
	for i := 0; i < maxSteps; i++ {
		legal := e.LegalActions()
		require.NotEmpty(t, legal, "no legal action at step %d", i)
		a := legal[rng.Intn(len(legal))]
		res, err := e.Step(ctx, a)
		require.NoError(t, err, "legal action %s rejected", a)
		require.NoError(t, e.Game().CheckZoneIntegrity())
		last = res
		if res.Terminal {
			return res
		}
	}
	return last
}

func TestNewEngineRejectsBadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Players = []string{"solo"}
	_, err := NewEngine(cards.Builtin(), opts, nil, nil)
	require.Error(t, err)

	opts = DefaultOptions()
	opts.Decks = []string{"no_such_deck"}
	_, err = NewEngine(cards.Builtin(), opts, nil, nil)
	assert.ErrorIs(t, err, cards.ErrUnknownCard)
}

func TestStepBeforeReset(t *testing.T) {
	e := quietEngine(t, DefaultOptions(), nil)
	_, err := e.Step(context.Background(), Action{Kind: ActionPass, Player: "p1"})
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Empty(t, e.LegalActions())
}

func TestResetStartsWithMulligan(t *testing.T) {
	e := quietEngine(t, DefaultOptions(), nil)
	obs, err := e.Reset(context.Background())
	require.NoError(t, err)

	require.NotNil(t, obs.Decision)
	assert.Equal(t, DecisionMulligan, obs.Decision.Kind)
	for _, p := range obs.Players {
		assert.Len(t, p.Hand, 7)
		assert.Equal(t, 33, p.LibrarySize)
		assert.Equal(t, 20, p.Life)
	}
	kinds := map[ActionKind]bool{}
	for _, a := range e.LegalActions() {
		kinds[a.Kind] = true
	}
	assert.True(t, kinds[ActionKeepHand])
	assert.True(t, kinds[ActionMulligan])
}

func TestMulliganBottomsCards(t *testing.T) {
	ctx := context.Background()
	e := quietEngine(t, DefaultOptions(), nil)
	obs, err := e.Reset(ctx)
	require.NoError(t, err)
	first := obs.Decision.Player

	_, err = e.Step(ctx, Action{Kind: ActionMulligan, Player: first})
	require.NoError(t, err)
	res, err := e.Step(ctx, Action{Kind: ActionKeepHand, Player: first})
	require.NoError(t, err)
	require.NotNil(t, res.Observation.Decision)
	assert.Equal(t, DecisionBottom, res.Observation.Decision.Kind)
	assert.Equal(t, 1, res.Observation.Decision.Count)

	hand := playerView(t, res.Observation, first).Hand
	res, err = e.Step(ctx, Action{Kind: ActionBottomCard, Player: first, ObjectID: hand[0].ID})
	require.NoError(t, err)
	assert.Len(t, playerView(t, res.Observation, first).Hand, 6)
	require.NotNil(t, res.Observation.Decision)
	assert.NotEqual(t, first, res.Observation.Decision.Player)
}

func TestRandomGamesKeepInvariants(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoPass = true
	opts.MaxTurns = 30
	sink := &recordingSink{}
	e := quietEngine(t, opts, sink)
	rng := rand.New(rand.NewSource(42))

	for episode := 0; episode < 3; episode++ {
		_, err := e.Reset(context.Background())
		require.NoError(t, err)
		res := playRandom(t, e, rng, 20000)
		require.True(t, res.Terminal, "episode %d did not finish", episode)
		require.NotNil(t, res.Info.Result)

		total := 0.0
		for _, r := range res.Info.Rewards {
			total += r
		}
		if res.Info.Result.Draw {
			assert.Zero(t, total)
		} else {
			assert.Equal(t, 1.0, res.Info.Rewards[res.Info.Result.Winner])
		}

		_, err = e.Step(context.Background(), Action{Kind: ActionPass, Player: "p1"})
		assert.ErrorIs(t, err, ErrGameOver)
	}
	require.Len(t, sink.results, 3)
	assert.NotEqual(t, sink.results[0].GameID, sink.results[1].GameID)
	assert.Equal(t, 2, sink.results[2].Episode)
}

func TestSameSeedSameGame(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoPass = true
	opts.MaxTurns = 10

	run := func() (string, int) {
		e := quietEngine(t, opts, nil)
		_, err := e.Reset(context.Background())
		require.NoError(t, err)
		playRandom(t, e, rand.New(rand.NewSource(3)), 20000)
		obs, err := e.Observation()
		require.NoError(t, err)
		replay, err := e.Replay()
		require.NoError(t, err)
		return Checksum(obs), len(replay.Actions)
	}
	sumA, stepsA := run()
	sumB, stepsB := run()
	assert.Equal(t, sumA, sumB)
	assert.Equal(t, stepsA, stepsB)
}

func TestIllegalActionLeavesStateUnchanged(t *testing.T) {
	e := quietEngine(t, DefaultOptions(), nil)
	obs, err := e.Reset(context.Background())
	require.NoError(t, err)
	before := Checksum(obs)

	other := "p1"
	if obs.ActingPlayer == "p1" {
		other = "p2"
	}
	_, err = e.Step(context.Background(), Action{Kind: ActionKeepHand, Player: other})
	require.ErrorIs(t, err, ErrIllegalAction)

	after, err := e.Observation()
	require.NoError(t, err)
	assert.Equal(t, before, Checksum(after))
}

func TestConcedeEndsTwoPlayerGame(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowConcede = true
	sink := &recordingSink{}
	e := quietEngine(t, opts, sink)
	_, err := e.Reset(context.Background())
	require.NoError(t, err)

	res, err := e.Step(context.Background(), Action{Kind: ActionConcede, Player: "p2"})
	require.NoError(t, err)
	assert.True(t, res.Terminal)
	assert.Equal(t, -1.0, res.Reward)
	require.NotNil(t, res.Info.Result)
	assert.Equal(t, "p1", res.Info.Result.Winner)
	assert.Equal(t, LossConcession, res.Info.Result.Reason)
	assert.Len(t, sink.results, 1)
}

func TestMultiplayerLossKeepsGameGoing(t *testing.T) {
	opts := DefaultOptions()
	opts.Players = []string{"p1", "p2", "p3"}
	opts.AllowConcede = true
	e := quietEngine(t, opts, nil)
	_, err := e.Reset(context.Background())
	require.NoError(t, err)

	res, err := e.Step(context.Background(), Action{Kind: ActionConcede, Player: "p3"})
	require.NoError(t, err)
	assert.False(t, res.Terminal)
	assert.True(t, playerView(t, res.Observation, "p3").Lost)
	assert.NotEqual(t, "p3", res.Observation.ActingPlayer)
	require.NoError(t, e.Game().CheckZoneIntegrity())
	assert.Empty(t, e.Game().LegalActionsFor("p3"))
}
