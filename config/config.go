package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"chessmcts/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Search     Search     `yaml:"search"`
	Log        Log        `yaml:"log"`
	Server     Server     `yaml:"server"`
	Experiment Experiment `yaml:"experiment"`
}

type Search struct {
	TimeBudget  time.Duration `yaml:"time_budget"`
	Exploration float64       `yaml:"exploration"`
	Episodes    int           `yaml:"episodes"` // 0 searches until the time budget is spent
	Cutoff      int           `yaml:"cutoff"`   // 0 plays every rollout to the end
	TreeReuse   bool          `yaml:"tree_reuse"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Experiment struct {
	Games       int    `yaml:"games"` // Per matchup
	Concurrency int    `yaml:"concurrency"`
	MaxMoves    int    `yaml:"max_moves"`
	OutDir      string `yaml:"out_dir"`
}

func Default() Config {
	return Config{
		Search: Search{
			TimeBudget:  searcher.DefaultDuration,
			Exploration: searcher.DefaultExploration,
		},
		Log: Log{
			Level:  zerolog.InfoLevel.String(),
			Pretty: true,
		},
		Server: Server{
			Addr: ":8080",
		},
		Experiment: Experiment{
			Games:       10,
			Concurrency: 4,
			MaxMoves:    300,
			OutDir:      "experiments",
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.Search.TimeBudget <= 0 {
		return fmt.Errorf("%w: search.time_budget must be positive, got %s", ErrInvalid, c.Search.TimeBudget)
	}
	if c.Search.Exploration <= 0 {
		return fmt.Errorf("%w: search.exploration must be positive, got %v", ErrInvalid, c.Search.Exploration)
	}
	if c.Search.Episodes < 0 || c.Search.Cutoff < 0 {
		return fmt.Errorf("%w: search.episodes and search.cutoff cannot be negative", ErrInvalid)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	if c.Experiment.Games <= 0 || c.Experiment.Concurrency <= 0 {
		return fmt.Errorf("%w: experiment.games and experiment.concurrency must be positive", ErrInvalid)
	}
	return nil
}

// SearchOptions translates the search section into searcher options
func (c Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{
		searcher.WithDuration(c.Search.TimeBudget),
		searcher.WithExploration(c.Search.Exploration),
	}
	if c.Search.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(c.Search.Episodes))
	}
	if c.Search.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(c.Search.Cutoff))
	}
	if c.Search.TreeReuse {
		options = append(options, searcher.WithTreeReuse())
	}
	return options
}

// SetupLogging configures the global zerolog logger
func (c Config) SetupLogging() error {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	zerolog.SetGlobalLevel(level)
	if c.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}
