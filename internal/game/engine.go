package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/watchers"
	"go.uber.org/zap"
)

// Options configures the games an Engine plays.
type Options struct {
	Players      []string
	StartingLife int
	HandSize     int
	MaxHandSize  int
	// MaxTurns ends the game when the turn number exceeds it. Zero disables the limit.
	MaxTurns              int
	SBAIterationLimit     int
	TriggerIterationLimit int
	Seed                  int64
	// AutoPass passes priority on a player's behalf whenever passing is their only option.
	AutoPass     bool
	AllowConcede bool
	// Decks names a deck per seat, reused in order when there are fewer decks than players.
	// Empty means the table's decks in name order.
	Decks []string
	// LegendChooser picks the permanent kept by the legend rule. Nil keeps the newest.
	LegendChooser func(controller string, candidates []string) string
}

// DefaultOptions returns options for a two-player game of 20 life.
func DefaultOptions() Options {
	return Options{
		Players:               []string{"p1", "p2"},
		StartingLife:          20,
		HandSize:              7,
		MaxHandSize:           7,
		MaxTurns:              20,
		SBAIterationLimit:     64,
		TriggerIterationLimit: 64,
		Seed:                  1,
	}
}

func (o Options) validate(table *cards.Table) error {
	if len(o.Players) < 2 {
		return fmt.Errorf("need at least two players, got %d", len(o.Players))
	}
	seen := make(map[string]bool, len(o.Players))
	for _, p := range o.Players {
		if p == "" || seen[p] {
			return fmt.Errorf("player ids must be unique and non-empty: %q", p)
		}
		seen[p] = true
	}
	if o.StartingLife <= 0 || o.HandSize < 0 || o.MaxHandSize < 0 {
		return errors.New("starting life must be positive and hand sizes non-negative")
	}
	for _, name := range o.Decks {
		if _, ok := table.Deck(name); !ok {
			return fmt.Errorf("%w: deck %q", cards.ErrUnknownCard, name)
		}
	}
	if len(o.Decks) == 0 && len(table.DeckNames()) == 0 {
		return errors.New("card table has no decks")
	}
	return nil
}

// Result is the outcome of a finished game.
type Result struct {
	GameID  string                          `json:"game_id"`
	Winner  string                          `json:"winner,omitempty"`
	Draw    bool                            `json:"draw"`
	Reason  string                          `json:"reason"`
	Turns   int                             `json:"turns"`
	Life    map[string]int                  `json:"life"`
	Stats   map[string]watchers.PlayerStats `json:"stats,omitempty"`
	Seed    int64                           `json:"seed"`
	Episode int                             `json:"episode"`
	EndedAt time.Time                       `json:"ended_at"`
}

// ResultSink receives the result of every finished game exactly once.
type ResultSink interface {
	Record(ctx context.Context, r Result) error
}

// StepInfo carries per-step details beyond the reward.
type StepInfo struct {
	Rewards      map[string]float64 `json:"rewards"`
	Result       *Result            `json:"result,omitempty"`
	Actor        string             `json:"actor"`
	LegalActions int                `json:"legal_actions"`
}

// StepResult is what Step returns for an applied action.
type StepResult struct {
	Observation Observation `json:"observation"`
	// Reward is the reward of the player who acted.
	Reward   float64  `json:"reward"`
	Terminal bool     `json:"terminal"`
	Info     StepInfo `json:"info"`
}

// Engine runs one game at a time for a training driver. It is safe for concurrent
// use; calls are serialized.
type Engine struct {
	mu      sync.Mutex
	table   *cards.Table
	opts    Options
	logger  *zap.Logger
	sink    ResultSink
	game    *Game
	episode int
	fault   error
	emitted bool
	replay  *Replay
}

// NewEngine creates an engine over table, or the process-wide table when table is nil.
// sink may be nil.
func NewEngine(table *cards.Table, opts Options, logger *zap.Logger, sink ResultSink) (*Engine, error) {
	if table == nil {
		table = cards.Global()
	}
	if table == nil {
		return nil, errors.New("no card table")
	}
	if err := opts.validate(table); err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{table: table, opts: opts, logger: logger, sink: sink}, nil
}

// Reset starts a new game. Each Reset plays the next episode, seeded with
// Options.Seed plus the episode number.
func (e *Engine) Reset(ctx context.Context) (Observation, error) {
	if err := ctx.Err(); err != nil {
		return Observation{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	episode := e.episode
	e.episode++
	seed := e.opts.Seed + int64(episode)
	gameID := gameIDFor(e.opts.Seed, episode)
	g := newGame(e.table, e.opts, e.logger.With(zap.String("game_id", gameID)), gameID, seed)

	decks := e.opts.Decks
	if len(decks) == 0 {
		decks = e.table.DeckNames()
	}
	for i, player := range g.order {
		deck, _ := e.table.Deck(decks[i%len(decks)])
		for _, cardID := range deck.Cards {
			def, err := e.table.Lookup(cardID)
			if err != nil {
				return Observation{}, err
			}
			if _, err := g.newObject(def, player, rules.ZoneLibrary, false); err != nil {
				return Observation{}, err
			}
		}
		g.shuffle(player)
		g.draw(player, e.opts.HandSize)
	}

	e.game = g
	e.fault = nil
	e.emitted = false
	e.replay = &Replay{GameID: gameID, Seed: e.opts.Seed, Episode: episode, Options: e.opts}
	if err := g.nextMulligan(); err != nil {
		return Observation{}, e.setFault("reset", err)
	}
	if err := g.advance(); err != nil {
		return Observation{}, e.setFault("reset", err)
	}
	e.logger.Info("game started",
		zap.String("game_id", gameID),
		zap.Int64("seed", seed),
		zap.Int("episode", episode),
		zap.String("starting_player", g.startingPlayer),
	)
	return g.observe(), nil
}

func (e *Engine) setFault(op string, err error) error {
	var fault *InternalFaultError
	if !errors.As(err, &fault) {
		fault = &InternalFaultError{Op: op, Detail: err.Error()}
	}
	e.fault = fault
	e.logger.Error("internal fault", zap.String("op", op), zap.Error(fault))
	return fault
}

// Step applies one action. An action outside the legal set fails with
// ErrIllegalAction and leaves the game untouched.
func (e *Engine) Step(ctx context.Context, a Action) (StepResult, error) {
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.game
	switch {
	case g == nil:
		return StepResult{}, ErrNotStarted
	case e.fault != nil:
		return StepResult{}, e.fault
	case g.over:
		return StepResult{}, ErrGameOver
	}
	if err := g.validateAction(a); err != nil {
		if errors.Is(err, ErrGameOver) {
			return StepResult{}, err
		}
		return StepResult{}, fmt.Errorf("%w: %s: %v", ErrIllegalAction, a, err)
	}
	if err := g.apply(a); err != nil {
		return StepResult{}, e.setFault("apply "+string(a.Kind), err)
	}
	if err := g.advance(); err != nil {
		return StepResult{}, e.setFault("advance", err)
	}
	e.replay.Actions = append(e.replay.Actions, a)

	res := StepResult{
		Observation: g.observe(),
		Terminal:    g.over,
		Info: StepInfo{
			Rewards: g.rewards(),
			Actor:   g.ActingPlayer(),
		},
	}
	res.Reward = res.Info.Rewards[a.Player]
	if g.over {
		result := g.result()
		result.Episode = e.replay.Episode
		res.Info.Result = &result
		e.replay.FinalChecksum = Checksum(res.Observation)
		e.emit(ctx, result)
	} else {
		res.Info.LegalActions = len(g.LegalActions())
	}
	return res, nil
}

func (e *Engine) emit(ctx context.Context, r Result) {
	if e.emitted {
		return
	}
	e.emitted = true
	e.logger.Info("game finished",
		zap.String("game_id", r.GameID),
		zap.String("winner", r.Winner),
		zap.Bool("draw", r.Draw),
		zap.String("reason", r.Reason),
		zap.Int("turns", r.Turns),
	)
	if e.sink == nil {
		return
	}
	if err := e.sink.Record(ctx, r); err != nil {
		e.logger.Error("failed to record game result", zap.String("game_id", r.GameID), zap.Error(err))
	}
}

// LegalActions returns the legal actions of the acting player sorted by key.
func (e *Engine) LegalActions() []Action {
	return e.LegalActionMask().Sorted()
}

// LegalActionMask returns the legal actions of the acting player as a set.
func (e *Engine) LegalActionMask() ActionSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.game == nil || e.fault != nil {
		return ActionSet{}
	}
	return e.game.LegalActions()
}

// Observation returns a snapshot of the current game.
func (e *Engine) Observation() (Observation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.game == nil {
		return Observation{}, ErrNotStarted
	}
	return e.game.observe(), nil
}

// Replay returns a copy of the current game's replay.
func (e *Engine) Replay() (*Replay, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.replay == nil {
		return nil, ErrNotStarted
	}
	r := *e.replay
	r.Actions = append([]Action(nil), e.replay.Actions...)
	return &r, nil
}

// Game exposes the current game for inspection. Callers must not mutate it while
// the engine is in use.
func (e *Engine) Game() *Game {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game
}

func (g *Game) rewards() map[string]float64 {
	out := make(map[string]float64, len(g.order))
	for _, id := range g.order {
		switch {
		case !g.over || g.isDraw:
			out[id] = 0
		case id == g.winner:
			out[id] = 1
		default:
			out[id] = -1
		}
	}
	return out
}

func (g *Game) result() Result {
	life := make(map[string]int, len(g.order))
	for _, id := range g.order {
		life[id] = g.players[id].Life
	}
	return Result{
		GameID:  g.ID,
		Winner:  g.winner,
		Draw:    g.isDraw,
		Reason:  g.reason,
		Turns:   g.turn.TurnNumber(),
		Life:    life,
		Stats:   g.stats.Summary(g.order),
		Seed:    g.Seed,
		EndedAt: time.Now().UTC(),
	}
}
