package selfplay

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxSteps bounds the actions of one match.
const DefaultMaxSteps = 50000

// ErrStepLimit is returned for a match that did not finish within MaxSteps.
var ErrStepLimit = errors.New("match exceeded step limit")

// AgentFactory creates the agent for one seat of one match.
type AgentFactory func(player string, seed int64) Agent

// Runner plays matches concurrently. Match i is seeded with Options.Seed plus i,
// so a run is reproducible whatever the worker count.
type Runner struct {
	Table    *cards.Table
	Options  game.Options
	Games    int
	Workers  int
	MaxSteps int
	Sink     game.ResultSink
	Recorder *game.ReplayRecorder
	Agents   AgentFactory
	Logger   *zap.Logger
}

// Summary aggregates the matches of a run.
type Summary struct {
	Games    int            `json:"games"`
	Wins     map[string]int `json:"wins"`
	Draws    int            `json:"draws"`
	Reasons  map[string]int `json:"reasons"`
	Turns    int            `json:"turns"`
	Steps    int            `json:"steps"`
	Failed   int            `json:"failed"`
	Duration time.Duration  `json:"duration"`
	Results  []game.Result  `json:"-"`
}

// AverageTurns returns the mean game length.
func (s Summary) AverageTurns() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Turns) / float64(s.Games)
}

// MatchOutcome is the result of one finished match.
type MatchOutcome struct {
	Index  int
	Result game.Result
	Steps  int
	Replay *game.Replay
}

// Run plays r.Games matches. A cancelled context stops the run between actions;
// unfinished matches are dropped and never reach the sink.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		summary = Summary{Wins: map[string]int{}, Reasons: map[string]int{}}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < r.Games; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			out, err := r.PlayMatch(gctx, i)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				summary.Failed++
				if r.Logger != nil {
					r.Logger.Error("match failed", zap.Int("match", i), zap.Error(err))
				}
				var fault *game.InternalFaultError
				if errors.As(err, &fault) {
					return err
				}
				return nil
			}
			summary.add(out)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	summary.Duration = time.Since(start)
	sort.Slice(summary.Results, func(a, b int) bool {
		return summary.Results[a].Seed < summary.Results[b].Seed
	})
	if r.Logger != nil {
		r.Logger.Info("self-play run finished",
			zap.Int("games", summary.Games),
			zap.Int("draws", summary.Draws),
			zap.Int("failed", summary.Failed),
			zap.Float64("average_turns", summary.AverageTurns()),
			zap.Duration("duration", summary.Duration),
		)
	}
	return summary, err
}

func (s *Summary) add(out MatchOutcome) {
	s.Games++
	s.Steps += out.Steps
	s.Turns += out.Result.Turns
	s.Reasons[out.Result.Reason]++
	if out.Result.Draw {
		s.Draws++
	} else {
		s.Wins[out.Result.Winner]++
	}
	s.Results = append(s.Results, out.Result)
}

// PlayMatch plays match i to completion with its own engine and agents.
func (r *Runner) PlayMatch(ctx context.Context, i int) (MatchOutcome, error) {
	opts := r.Options
	opts.Seed = r.Options.Seed + int64(i)
	return r.play(ctx, i, opts)
}

// PlayGame plays one game with decks seated in order and returns the index of the
// winning deck, or -1 for a draw. It lets a tournament drive the runner.
func (r *Runner) PlayGame(ctx context.Context, seed int64, decks []string) (int, error) {
	opts := r.Options
	opts.Seed = seed
	opts.Decks = decks
	if len(decks) != len(opts.Players) {
		return 0, fmt.Errorf("%d decks for %d players", len(decks), len(opts.Players))
	}
	out, err := r.play(ctx, int(seed), opts)
	if err != nil {
		return 0, err
	}
	if out.Result.Draw {
		return -1, nil
	}
	for seat, player := range opts.Players {
		if player == out.Result.Winner {
			return seat, nil
		}
	}
	return 0, fmt.Errorf("winner %q is not seated", out.Result.Winner)
}

func (r *Runner) play(ctx context.Context, i int, opts game.Options) (MatchOutcome, error) {
	logger := r.Logger
	if logger != nil {
		logger = logger.With(zap.Int("match", i))
	}
	e, err := game.NewEngine(r.Table, opts, logger, r.Sink)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("create engine: %w", err)
	}
	obs, err := e.Reset(ctx)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("reset match %d: %w", i, err)
	}

	factory := r.Agents
	if factory == nil {
		factory = func(_ string, seed int64) Agent { return NewRandomAgent(seed) }
	}
	agents := make(map[string]Agent, len(opts.Players))
	for seat, player := range opts.Players {
		agents[player] = factory(player, opts.Seed*31+int64(seat))
	}

	maxSteps := r.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	for steps := 0; steps < maxSteps; steps++ {
		legal := e.LegalActions()
		if len(legal) == 0 {
			return MatchOutcome{}, fmt.Errorf("match %d: no legal action for %s", i, obs.ActingPlayer)
		}
		agent, ok := agents[legal[0].Player]
		if !ok {
			return MatchOutcome{}, fmt.Errorf("match %d: no agent for %s", i, legal[0].Player)
		}
		action := agent.Choose(obs, legal)
		res, err := e.Step(ctx, action)
		if err != nil {
			return MatchOutcome{}, fmt.Errorf("match %d step %d: %w", i, steps, err)
		}
		obs = res.Observation
		if !res.Terminal {
			continue
		}
		replay, err := e.Replay()
		if err != nil {
			return MatchOutcome{}, err
		}
		if r.Recorder != nil {
			if err := r.Recorder.Save(replay); err != nil {
				return MatchOutcome{}, err
			}
		}
		return MatchOutcome{Index: i, Result: *res.Info.Result, Steps: steps + 1, Replay: replay}, nil
	}
	return MatchOutcome{}, fmt.Errorf("match %d: %w (%d)", i, ErrStepLimit, maxSteps)
}
