package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/config"
	"github.com/CarterRock49/MTG-AI-Project/internal/driver"
	"github.com/CarterRock49/MTG-AI-Project/internal/logging"
	"github.com/CarterRock49/MTG-AI-Project/internal/results"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting rules engine server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Card table shared by every session
	table, err := cards.LoadSource(ctx, cfg.Cards.Source, cfg.Cards.Path, cfg.Cards.DSN)
	if err != nil {
		logger.Fatal("failed to load card table", zap.Error(err))
	}
	if err := cards.InitGlobal(table); err != nil {
		logger.Fatal("failed to install card table", zap.Error(err))
	}
	logger.Info("card table loaded",
		zap.String("source", cfg.Cards.Source),
		zap.Int("cards", table.Len()),
		zap.Strings("decks", table.DeckNames()),
	)

	sink, err := results.New(ctx, cfg.Results, logger)
	if err != nil {
		logger.Fatal("failed to open result sink", zap.Error(err))
	}
	defer sink.Close()
	logger.Info("result sink initialized", zap.String("driver", cfg.Results.Driver))

	drv := driver.NewServer(nil, cfg.EngineOptions(), sink, cfg.Server, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: drv.Handler(),
	}

	go func() {
		logger.Info("starting websocket driver", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("websocket driver error", zap.Error(serveErr))
			sigChan <- syscall.SIGTERM
		}
	}()

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", zap.Error(err))
	}
	drv.Close()

	logger.Info("rules engine server stopped", zap.Int64("open_sessions", drv.ActiveSessions()))
}
