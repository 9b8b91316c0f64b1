package tournament

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// rankedPlayer lets the deck with the higher strength win every game.
type rankedPlayer struct {
	strength map[string]int
	games    int
	fail     bool
}

func (p *rankedPlayer) PlayGame(_ context.Context, _ int64, decks []string) (int, error) {
	p.games++
	if p.fail {
		return 0, errors.New("engine fault")
	}
	a, b := p.strength[decks[0]], p.strength[decks[1]]
	switch {
	case a > b:
		return 0, nil
	case b > a:
		return 1, nil
	default:
		return -1, nil
	}
}

func newTestTournament(t *testing.T, rounds, wins int, decks ...string) *Tournament {
	t.Helper()
	tour := NewTournament("test", rounds, wins, 1, zaptest.NewLogger(t))
	for _, d := range decks {
		require.NoError(t, tour.AddPlayer(d))
	}
	return tour
}

func TestTournamentCreation(t *testing.T) {
	tour := newTestTournament(t, 3, 2, "red", "green")
	assert.NotEmpty(t, tour.ID)
	assert.Equal(t, TournamentStateWaiting, tour.GetState())
	assert.Equal(t, 2, tour.GetPlayerCount())
	assert.Error(t, tour.AddPlayer("red"))
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	tour := newTestTournament(t, 1, 1, "red")
	assert.Error(t, tour.Start())

	require.NoError(t, tour.AddPlayer("green"))
	require.NoError(t, tour.Start())
	assert.Equal(t, TournamentStateInProgress, tour.GetState())
	assert.Error(t, tour.Start())
	assert.Error(t, tour.AddPlayer("blue"))
}

func TestDefaultRoundCount(t *testing.T) {
	assert.Equal(t, 1, swissRounds(2))
	assert.Equal(t, 2, swissRounds(3))
	assert.Equal(t, 2, swissRounds(4))
	assert.Equal(t, 3, swissRounds(5))

	tour := newTestTournament(t, 0, 1, "a", "b", "c", "d", "e")
	require.NoError(t, tour.Start())
	assert.Equal(t, 3, tour.NumRounds)
}

func TestStrongestDeckWins(t *testing.T) {
	player := &rankedPlayer{strength: map[string]int{"a": 4, "b": 3, "c": 2, "d": 1}}
	tour := newTestTournament(t, 2, 2, "d", "c", "b", "a")

	require.NoError(t, tour.Run(context.Background(), player))
	assert.Equal(t, TournamentStateFinished, tour.GetState())
	assert.Equal(t, "a", tour.Winner)

	standings := tour.Standings()
	require.Len(t, standings, 4)
	assert.Equal(t, "a", standings[0].Name)
	assert.Equal(t, 2*PointsWin, standings[0].Points)
	assert.Equal(t, "d", standings[3].Name)
	assert.Zero(t, standings[3].Points)
	// Two rounds of two matches, each a 2-0 sweep.
	assert.Equal(t, 8, player.games)
}

func TestSecondRoundAvoidsRematch(t *testing.T) {
	player := &rankedPlayer{strength: map[string]int{"a": 4, "b": 3, "c": 2, "d": 1}}
	tour := newTestTournament(t, 3, 1, "a", "b", "c", "d")
	require.NoError(t, tour.Start())
	require.NoError(t, tour.PlayRound(context.Background(), player))
	require.NoError(t, tour.PlayRound(context.Background(), player))

	seen := map[string]bool{}
	for _, round := range tour.Snapshot().Rounds[:2] {
		for _, p := range round.Pairings {
			key := matchKey(p.Player1, p.Player2)
			assert.False(t, seen[key], "rematch %s", key)
			seen[key] = true
		}
	}
}

func TestOddFieldGetsOneByeEach(t *testing.T) {
	player := &rankedPlayer{strength: map[string]int{"a": 3, "b": 2, "c": 1}}
	tour := newTestTournament(t, 3, 1, "a", "b", "c")
	require.NoError(t, tour.Run(context.Background(), player))

	byes := 0
	for _, p := range tour.Standings() {
		assert.LessOrEqual(t, p.Byes, 1, p.Name)
		byes += p.Byes
	}
	assert.Equal(t, 3, byes)
}

func TestDrawnMatch(t *testing.T) {
	player := &rankedPlayer{strength: map[string]int{"a": 1, "b": 1}}
	tour := newTestTournament(t, 1, 2, "a", "b")
	require.NoError(t, tour.Run(context.Background(), player))

	snap := tour.Snapshot()
	pairing := snap.Rounds[0].Pairings[0]
	assert.Empty(t, pairing.Winner)
	assert.Equal(t, 5, pairing.Draws)
	for _, p := range snap.Standings {
		assert.Equal(t, PointsDraw, p.Points)
	}
}

func TestRecordMatchResult(t *testing.T) {
	tour := newTestTournament(t, 1, 1, "a", "b")
	require.NoError(t, tour.Start())

	assert.Error(t, tour.RecordMatchResult(2, "a", "b", 1, 0, 0))
	assert.Error(t, tour.RecordMatchResult(1, "a", "z", 1, 0, 0))
	require.NoError(t, tour.RecordMatchResult(1, "b", "a", 2, 1, 0))
	assert.Error(t, tour.RecordMatchResult(1, "a", "b", 1, 0, 0))

	standings := tour.Standings()
	assert.Equal(t, "b", standings[0].Name)
	assert.Equal(t, 1, standings[1].Losses)
}

func TestGameErrorStopsTournament(t *testing.T) {
	tour := newTestTournament(t, 1, 1, "a", "b")
	err := tour.Run(context.Background(), &rankedPlayer{fail: true})
	assert.ErrorContains(t, err, "engine fault")
	assert.Equal(t, TournamentStateInProgress, tour.GetState())
}
