package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/config"
	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"github.com/CarterRock49/MTG-AI-Project/internal/logging"
	"github.com/CarterRock49/MTG-AI-Project/internal/results"
	"github.com/CarterRock49/MTG-AI-Project/internal/selfplay"
	"github.com/CarterRock49/MTG-AI-Project/internal/tournament"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	games      = flag.Int("games", 0, "number of matches, overrides selfplay.games")
	workers    = flag.Int("workers", 0, "concurrent matches, overrides selfplay.workers")
	verify     = flag.String("verify", "", "replay a saved game id from selfplay.replay_dir and exit")
	swiss      = flag.Bool("tournament", false, "play a Swiss tournament between the table's decks")
	rounds     = flag.Int("rounds", 0, "tournament rounds, 0 picks enough to separate the decks")
	winsNeeded = flag.Int("wins", 2, "game wins needed to take a tournament match")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := cards.LoadSource(ctx, cfg.Cards.Source, cfg.Cards.Path, cfg.Cards.DSN)
	if err != nil {
		logger.Fatal("failed to load card table", zap.Error(err))
	}

	if *verify != "" {
		replay, err := game.LoadReplayFromFile(cfg.SelfPlay.ReplayDir, *verify)
		if err != nil {
			logger.Fatal("failed to load replay", zap.Error(err))
		}
		if err := replay.Verify(ctx, table, logger); err != nil {
			logger.Fatal("replay diverged", zap.String("game_id", *verify), zap.Error(err))
		}
		logger.Info("replay verified",
			zap.String("game_id", *verify),
			zap.Int("actions", len(replay.Actions)),
		)
		return
	}

	sink, err := results.New(ctx, cfg.Results, logger)
	if err != nil {
		logger.Fatal("failed to open result sink", zap.Error(err))
	}
	defer sink.Close()

	runner := &selfplay.Runner{
		Table:   table,
		Options: cfg.EngineOptions(),
		Games:   cfg.SelfPlay.Games,
		Workers: cfg.SelfPlay.Workers,
		Sink:    sink,
		Logger:  logger,
	}
	if *games > 0 {
		runner.Games = *games
	}
	if *workers > 0 {
		runner.Workers = *workers
	}
	if cfg.SelfPlay.ReplayDir != "" {
		runner.Recorder = game.NewReplayRecorder(logger, cfg.SelfPlay.ReplayDir)
	}

	if *swiss {
		tour := tournament.NewTournament("self-play", *rounds, *winsNeeded, runner.Options.Seed, logger)
		for _, deck := range table.DeckNames() {
			if err := tour.AddPlayer(deck); err != nil {
				logger.Fatal("failed to enter deck", zap.String("deck", deck), zap.Error(err))
			}
		}
		err := tour.Run(ctx, runner)
		out, _ := json.MarshalIndent(tour.Snapshot(), "", "  ")
		fmt.Println(string(out))
		if err != nil {
			logger.Error("tournament stopped early", zap.Error(err))
			_ = sink.Close()
			_ = logger.Sync()
			os.Exit(1)
		}
		return
	}

	logger.Info("starting self-play",
		zap.Int("games", runner.Games),
		zap.Int("workers", runner.Workers),
		zap.Int64("seed", runner.Options.Seed),
	)
	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error("self-play stopped early", zap.Error(err))
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
	if err != nil {
		_ = sink.Close()
		_ = logger.Sync()
		os.Exit(1)
	}
}
