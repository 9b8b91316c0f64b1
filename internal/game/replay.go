package game

import (
	"compress/gzip"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"go.uber.org/zap"
)

const replayVersion = 1

// Replay is everything needed to replay a game: the engine options, the episode
// and every applied action. The game RNG is seeded from these, so replaying the
// actions reproduces the game exactly.
type Replay struct {
	GameID        string
	Seed          int64
	Episode       int
	Options       Options
	Actions       []Action
	FinalChecksum string
}

// replayMetadata is the header of a replay file.
type replayMetadata struct {
	GameID      string
	Timestamp   time.Time
	Version     int
	ActionCount int
}

// SaveToFile writes the replay to directory/<game id>.replay as gzipped gob.
func (r *Replay) SaveToFile(directory string) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)
	metadata := replayMetadata{
		GameID:      r.GameID,
		Timestamp:   time.Now(),
		Version:     replayVersion,
		ActionCount: len(r.Actions),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)
	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}
	var replay Replay
	if err := decoder.Decode(&replay); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if len(replay.Actions) != metadata.ActionCount {
		return nil, fmt.Errorf("replay has %d actions, header says %d", len(replay.Actions), metadata.ActionCount)
	}
	return &replay, nil
}

// Verify replays the recorded actions on a fresh engine over table and checks that
// the final state matches the recorded checksum.
func (r *Replay) Verify(ctx context.Context, table *cards.Table, logger *zap.Logger) error {
	e, err := NewEngine(table, r.Options, logger, nil)
	if err != nil {
		return err
	}
	e.episode = r.Episode
	obs, err := e.Reset(ctx)
	if err != nil {
		return err
	}
	if obs.GameID != r.GameID {
		return fmt.Errorf("replay game id %s, replayed %s", r.GameID, obs.GameID)
	}
	for i, a := range r.Actions {
		res, err := e.Step(ctx, a)
		if err != nil {
			return fmt.Errorf("action %d (%s): %w", i, a, err)
		}
		obs = res.Observation
	}
	if r.FinalChecksum != "" {
		if got := Checksum(obs); got != r.FinalChecksum {
			return fmt.Errorf("checksum mismatch: recorded=%s, replayed=%s", r.FinalChecksum, got)
		}
	}
	return nil
}

// ReplayRecorder saves finished games' replays to a directory.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.Mutex
	saveDir string
	saved   int
}

// NewReplayRecorder creates a recorder writing to saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	return &ReplayRecorder{logger: logger, saveDir: saveDir}
}

// Save writes a replay to disk.
func (rr *ReplayRecorder) Save(replay *Replay) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.saved++
	if rr.logger != nil {
		rr.logger.Debug("saved replay to disk",
			zap.String("game_id", replay.GameID),
			zap.Int("action_count", len(replay.Actions)),
			zap.String("directory", rr.saveDir),
		)
	}
	return nil
}

// Load reads the replay of gameID from the recorder's directory.
func (rr *ReplayRecorder) Load(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, gameID)
	if err != nil {
		return nil, err
	}
	if rr.logger != nil {
		rr.logger.Debug("loaded replay from disk",
			zap.String("game_id", gameID),
			zap.Int("action_count", len(replay.Actions)),
		)
	}
	return replay, nil
}

// Saved returns how many replays the recorder has written.
func (rr *ReplayRecorder) Saved() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.saved
}
