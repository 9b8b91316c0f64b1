package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func finishedReplay(t *testing.T, episodes int) *Replay {
	t.Helper()
	opts := DefaultOptions()
	opts.AutoPass = true
	opts.MaxTurns = 6
	opts.Seed = 11
	e := quietEngine(t, opts, nil)
	rng := rand.New(rand.NewSource(5))

	var replay *Replay
	for i := 0; i < episodes; i++ {
		_, err := e.Reset(context.Background())
		require.NoError(t, err)
		res := playRandom(t, e, rng, 20000)
		require.True(t, res.Terminal)
		replay, err = e.Replay()
		require.NoError(t, err)
	}
	require.NotEmpty(t, replay.FinalChecksum)
	return replay
}

func TestReplaySaveAndLoad(t *testing.T) {
	replay := finishedReplay(t, 1)
	dir := t.TempDir()

	require.NoError(t, replay.SaveToFile(dir))
	loaded, err := LoadReplayFromFile(dir, replay.GameID)
	require.NoError(t, err)

	assert.Equal(t, replay.GameID, loaded.GameID)
	assert.Equal(t, replay.Seed, loaded.Seed)
	assert.Equal(t, replay.FinalChecksum, loaded.FinalChecksum)
	assert.Equal(t, replay.Options.MaxTurns, loaded.Options.MaxTurns)
	require.Len(t, loaded.Actions, len(replay.Actions))
	for i := range replay.Actions {
		assert.Equal(t, replay.Actions[i].Key(), loaded.Actions[i].Key())
	}
}

func TestReplayLoadMissingFile(t *testing.T) {
	_, err := LoadReplayFromFile(t.TempDir(), "missing")
	assert.Error(t, err)
}

func TestReplayVerifyReproducesGame(t *testing.T) {
	replay := finishedReplay(t, 1)
	logger := zaptest.NewLogger(t)
	require.NoError(t, replay.Verify(context.Background(), cards.Builtin(), logger))
}

func TestReplayVerifyLaterEpisode(t *testing.T) {
	replay := finishedReplay(t, 2)
	assert.Equal(t, 1, replay.Episode)
	require.NoError(t, replay.Verify(context.Background(), cards.Builtin(), nil))
}

func TestReplayVerifyDetectsTampering(t *testing.T) {
	replay := finishedReplay(t, 1)
	replay.Actions = replay.Actions[:len(replay.Actions)-1]
	assert.Error(t, replay.Verify(context.Background(), cards.Builtin(), nil))
}

func TestReplayRecorder(t *testing.T) {
	logger := zaptest.NewLogger(t)
	recorder := NewReplayRecorder(logger, t.TempDir())
	replay := finishedReplay(t, 1)

	require.NoError(t, recorder.Save(replay))
	assert.Equal(t, 1, recorder.Saved())

	loaded, err := recorder.Load(replay.GameID)
	require.NoError(t, err)
	assert.Equal(t, replay.FinalChecksum, loaded.FinalChecksum)
}
