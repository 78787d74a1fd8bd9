package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"chessmcts/searcher"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	config := Default()

	require.NoError(t, config.Validate())
	require.Equal(t, 3*time.Second, config.Search.TimeBudget)
	require.Equal(t, 1.4, config.Search.Exploration)
	require.Len(t, config.SearchOptions(), 2, "Defaults should only set the budget and exploration")
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		config, err := Load("")

		require.NoError(t, err)
		require.Equal(t, Default(), config)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
search:
  time_budget: 500ms
  cutoff: 40
  tree_reuse: true
log:
  level: debug
experiment:
  games: 2
`)

		config, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, 500*time.Millisecond, config.Search.TimeBudget)
		require.Equal(t, searcher.DefaultExploration, config.Search.Exploration, "Unset fields keep their default")
		require.Equal(t, 40, config.Search.Cutoff)
		require.True(t, config.Search.TreeReuse)
		require.Equal(t, "debug", config.Log.Level)
		require.Equal(t, 2, config.Experiment.Games)
		require.Equal(t, 4, config.Experiment.Concurrency)
		require.Len(t, config.SearchOptions(), 4)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search: ["))

		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search:\n  exploration: -1\n"))

		require.ErrorIs(t, err, ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero budget", func(c *Config) { c.Search.TimeBudget = 0 }},
		{"zero exploration", func(c *Config) { c.Search.Exploration = 0 }},
		{"negative episodes", func(c *Config) { c.Search.Episodes = -1 }},
		{"negative cutoff", func(c *Config) { c.Search.Cutoff = -1 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
		{"no games", func(c *Config) { c.Experiment.Games = 0 }},
		{"no concurrency", func(c *Config) { c.Experiment.Concurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(&config)

			require.ErrorIs(t, config.Validate(), ErrInvalid)
		})
	}
}

func TestSetupLogging(t *testing.T) {
	previous := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(previous)
	config := Default()
	config.Log.Level = "warn"
	config.Log.Pretty = false

	require.NoError(t, config.SetupLogging())
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
