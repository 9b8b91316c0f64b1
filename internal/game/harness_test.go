package game

import (
	"context"
	"testing"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// harness drives a game that starts in p1's first main phase with both hands kept,
// empty hands and a few plains in each library. Tests place cards directly.
type harness struct {
	t      *testing.T
	ctx    context.Context
	engine *Engine
	g      *Game
}

func newHarness(t *testing.T, extra ...*cards.Definition) *harness {
	t.Helper()
	return newHarnessWithOptions(t, DefaultOptions(), extra...)
}

func newHarnessWithOptions(t *testing.T, opts Options, extra ...*cards.Definition) *harness {
	t.Helper()
	defs := append(cards.BuiltinDefinitions(), extra...)
	table, err := cards.NewTable(defs, cards.BuiltinDecks()...)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	g := newGame(table, opts, logger, gameIDFor(opts.Seed, 0), opts.Seed)
	g.startingPlayer = "p1"
	g.turn = rules.NewTurnManager("p1")
	for _, id := range g.order {
		g.players[id].Kept = true
	}

	h := &harness{
		t:   t,
		ctx: context.Background(),
		engine: &Engine{
			table:  table,
			opts:   opts,
			logger: logger,
			game:   g,
			replay: &Replay{GameID: g.ID, Seed: opts.Seed, Options: opts},
		},
		g: g,
	}
	for _, id := range g.order {
		for i := 0; i < 10; i++ {
			h.put(id, "plains", rules.ZoneLibrary)
		}
	}
	for g.turn.CurrentStep() != rules.StepMain1 {
		g.turn.AdvanceStep("")
	}
	g.priority.Reset()
	g.priorityOpen = true
	g.turn.SetPriority("p1")
	return h
}

// put creates a card in zone. Permanents put onto the battlefield can attack and tap at once.
func (h *harness) put(player, cardID string, zone rules.Zone) string {
	h.t.Helper()
	def, err := h.g.table.Lookup(cardID)
	require.NoError(h.t, err)
	obj, err := h.g.newObject(def, player, zone, false)
	require.NoError(h.t, err)
	obj.SummoningSick = false
	return obj.ID
}

func (h *harness) battlefield(player, cardID string) string {
	return h.put(player, cardID, rules.ZoneBattlefield)
}

func (h *harness) hand(player, cardID string) string {
	return h.put(player, cardID, rules.ZoneHand)
}

func (h *harness) step(a Action) StepResult {
	h.t.Helper()
	res, err := h.engine.Step(h.ctx, a)
	require.NoError(h.t, err, "step %s", a)
	return res
}

// pass passes priority for the acting player.
func (h *harness) pass() StepResult {
	h.t.Helper()
	return h.step(Action{Kind: ActionPass, Player: h.g.ActingPlayer()})
}

// passUntil passes until the game reaches step or a decision is pending.
func (h *harness) passUntil(step rules.Step) {
	h.t.Helper()
	for i := 0; i < 50; i++ {
		if h.g.over || h.g.decision != nil || h.g.turn.CurrentStep() == step {
			return
		}
		h.pass()
	}
	h.t.Fatalf("did not reach %s", step)
}

func (h *harness) cardsIn(player string, zone rules.Zone) []string {
	var out []string
	container := h.g.container(zone, player)
	for _, id := range container.ids {
		obj := h.g.objects[id]
		if zone == rules.ZoneBattlefield && obj.Controller != player {
			continue
		}
		out = append(out, obj.CardID)
	}
	return out
}

func (h *harness) player(id string) *Player {
	return h.g.players[id]
}

func (h *harness) checksum() string {
	return Checksum(h.g.observe())
}

func playerView(t *testing.T, obs Observation, id string) PlayerView {
	t.Helper()
	p, ok := obs.Player(id)
	require.True(t, ok, "no player %s", id)
	return p
}
