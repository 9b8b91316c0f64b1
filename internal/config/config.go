package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Cards    CardsConfig    `mapstructure:"cards"`
	Results  ResultsConfig  `mapstructure:"results"`
	Server   ServerConfig   `mapstructure:"server"`
	SelfPlay SelfPlayConfig `mapstructure:"selfplay"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds the rules engine parameters.
type EngineConfig struct {
	StartingLife          int      `mapstructure:"starting_life"`
	StartingHandSize      int      `mapstructure:"starting_hand_size"`
	MaxHandSize           int      `mapstructure:"max_hand_size"`
	MaxTurns              int      `mapstructure:"max_turns"`
	SBAIterationLimit     int      `mapstructure:"sba_iteration_limit"`
	TriggerIterationLimit int      `mapstructure:"trigger_iteration_limit"`
	Players               []string `mapstructure:"players"`
	Decks                 []string `mapstructure:"decks"`
	AutoPass              bool     `mapstructure:"auto_pass"`
	AllowConcede          bool     `mapstructure:"allow_concede"`
	Seed                  int64    `mapstructure:"seed"`
}

// CardsConfig selects where card definitions come from.
type CardsConfig struct {
	// Source is builtin, file or postgres.
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// ResultsConfig selects the result sink.
type ResultsConfig struct {
	// Driver is log, sqlite or postgres.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// ServerConfig configures the websocket driver endpoint.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SelfPlayConfig configures batch self-play runs.
type SelfPlayConfig struct {
	Games     int    `mapstructure:"games"`
	Workers   int    `mapstructure:"workers"`
	ReplayDir string `mapstructure:"replay_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.starting_life", 20)
	v.SetDefault("engine.starting_hand_size", 7)
	v.SetDefault("engine.max_hand_size", 7)
	v.SetDefault("engine.max_turns", 20)
	v.SetDefault("engine.sba_iteration_limit", 64)
	v.SetDefault("engine.trigger_iteration_limit", 64)
	v.SetDefault("engine.players", []string{"p1", "p2"})
	v.SetDefault("engine.decks", []string{})
	v.SetDefault("engine.auto_pass", false)
	v.SetDefault("engine.allow_concede", true)
	v.SetDefault("engine.seed", 1)

	v.SetDefault("cards.source", "builtin")
	v.SetDefault("cards.path", "")
	v.SetDefault("cards.dsn", "")

	v.SetDefault("results.driver", "log")
	v.SetDefault("results.dsn", "")

	v.SetDefault("server.address", ":8090")
	v.SetDefault("server.read_limit", 1<<16)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("selfplay.games", 100)
	v.SetDefault("selfplay.workers", 4)
	v.SetDefault("selfplay.replay_dir", "")
}

// Load reads the YAML file at path, when path is not empty, and applies MTG_
// environment overrides such as MTG_ENGINE_MAX_TURNS.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MTG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	e := c.Engine
	if e.StartingLife <= 0 {
		return errors.New("engine.starting_life must be positive")
	}
	if e.StartingHandSize < 0 || e.MaxHandSize < 0 {
		return errors.New("engine hand sizes must not be negative")
	}
	if e.MaxTurns < 0 {
		return errors.New("engine.max_turns must not be negative")
	}
	if e.SBAIterationLimit <= 0 || e.TriggerIterationLimit <= 0 {
		return errors.New("engine iteration limits must be positive")
	}
	if len(e.Players) < 2 {
		return fmt.Errorf("engine.players needs at least two players, got %d", len(e.Players))
	}

	switch c.Cards.Source {
	case "builtin":
	case "file":
		if c.Cards.Path == "" {
			return errors.New("cards.path is required for the file source")
		}
	case "postgres":
		if c.Cards.DSN == "" {
			return errors.New("cards.dsn is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown cards.source %q", c.Cards.Source)
	}

	switch c.Results.Driver {
	case "log":
	case "sqlite", "postgres":
		if c.Results.DSN == "" {
			return fmt.Errorf("results.dsn is required for the %s driver", c.Results.Driver)
		}
	default:
		return fmt.Errorf("unknown results.driver %q", c.Results.Driver)
	}

	if c.SelfPlay.Games < 0 || c.SelfPlay.Workers <= 0 {
		return errors.New("selfplay.games must not be negative and selfplay.workers must be positive")
	}
	if c.Server.ReadLimit <= 0 {
		return errors.New("server.read_limit must be positive")
	}
	return nil
}

// EngineOptions converts the engine section into game options.
func (c *Config) EngineOptions() game.Options {
	opts := game.DefaultOptions()
	e := c.Engine
	opts.Players = append([]string(nil), e.Players...)
	opts.StartingLife = e.StartingLife
	opts.HandSize = e.StartingHandSize
	opts.MaxHandSize = e.MaxHandSize
	opts.MaxTurns = e.MaxTurns
	opts.SBAIterationLimit = e.SBAIterationLimit
	opts.TriggerIterationLimit = e.TriggerIterationLimit
	opts.Seed = e.Seed
	opts.AutoPass = e.AutoPass
	opts.AllowConcede = e.AllowConcede
	if len(e.Decks) > 0 {
		opts.Decks = append([]string(nil), e.Decks...)
	}
	return opts
}
