package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 20, cfg.Engine.StartingLife)
	assert.Equal(t, 7, cfg.Engine.StartingHandSize)
	assert.Equal(t, 7, cfg.Engine.MaxHandSize)
	assert.Equal(t, 20, cfg.Engine.MaxTurns)
	assert.Equal(t, 64, cfg.Engine.SBAIterationLimit)
	assert.Equal(t, []string{"p1", "p2"}, cfg.Engine.Players)
	assert.Equal(t, "builtin", cfg.Cards.Source)
	assert.Equal(t, "log", cfg.Results.Driver)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
engine:
  starting_life: 30
  max_turns: 40
  players: [alice, bob, carol]
  decks: [mono_red]
results:
  driver: sqlite
  dsn: results.db
server:
  write_timeout: 3s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30, cfg.Engine.StartingLife)
	assert.Equal(t, []string{"alice", "bob", "carol"}, cfg.Engine.Players)
	assert.Equal(t, "sqlite", cfg.Results.Driver)
	assert.Equal(t, 3*time.Second, cfg.Server.WriteTimeout)

	opts := cfg.EngineOptions()
	assert.Equal(t, 30, opts.StartingLife)
	assert.Equal(t, 40, opts.MaxTurns)
	assert.Equal(t, []string{"mono_red"}, opts.Decks)
	assert.Len(t, opts.Players, 3)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MTG_ENGINE_MAX_TURNS", "5")
	t.Setenv("MTG_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Engine.MaxTurns)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"one player", "engine:\n  players: [solo]\n"},
		{"zero life", "engine:\n  starting_life: 0\n"},
		{"file source without path", "cards:\n  source: file\n"},
		{"unknown sink", "results:\n  driver: kafka\n"},
		{"sqlite without dsn", "results:\n  driver: sqlite\n"},
		{"no workers", "selfplay:\n  workers: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
