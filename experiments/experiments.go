package experiments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chessmcts/config"
	"chessmcts/engine"
	"chessmcts/experiments/metrics"
	"chessmcts/game"
	"chessmcts/searcher"
	"chessmcts/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const TimeBudget = 100 * time.Millisecond

// Summary of a finished experiment
type Summary struct {
	Dir   string
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// RunExplorationExperiment pairs agents with different exploration constants
// against the default one
func RunExplorationExperiment(ctx context.Context, cfg config.Experiment, start *game.Chess) (Summary, error) {
	baseline := metrics.AgentConfig{ID: 0, Duration: TimeBudget, Exploration: searcher.DefaultExploration, Cutoff: 40}
	explorationConfigs := []metrics.AgentConfig{
		{ID: 1, Duration: TimeBudget, Exploration: 0.5, Cutoff: 40},
		{ID: 2, Duration: TimeBudget, Exploration: 1.0, Cutoff: 40},
		{ID: 3, Duration: TimeBudget, Exploration: 2.0, Cutoff: 40},
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, c := range explorationConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, c})
	}
	return runExperiment(ctx, "exploration", cfg, start, append(explorationConfigs, baseline), matchUps)
}

// RunCutoffExperiment pairs agents with rollout cutoffs against full playouts
func RunCutoffExperiment(ctx context.Context, cfg config.Experiment, start *game.Chess) (Summary, error) {
	baseline := metrics.AgentConfig{ID: 0, Duration: TimeBudget, Exploration: searcher.DefaultExploration}
	cutoffConfigs := []metrics.AgentConfig{
		{ID: 1, Duration: TimeBudget, Exploration: searcher.DefaultExploration, Cutoff: 10},
		{ID: 2, Duration: TimeBudget, Exploration: searcher.DefaultExploration, Cutoff: 40},
		{ID: 3, Duration: TimeBudget, Exploration: searcher.DefaultExploration, Cutoff: 100},
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, c := range cutoffConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, c})
	}
	return runExperiment(ctx, "cutoff", cfg, start, append(cutoffConfigs, baseline), matchUps)
}

func runExperiment(ctx context.Context, name string, cfg config.Experiment, start *game.Chess, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) (Summary, error) {
	log.Info().Msgf("starting %s experiment...", name)

	var mu sync.Mutex
	summary := Summary{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for mi, matchUp := range matchUps {
		for i := 0; i < cfg.Games; i++ {
			// Alternate the agent moving first
			first, second := matchUp[0], matchUp[1]
			if i%2 == 1 {
				first, second = second, first
			}

			mi, i := mi, i
			g.Go(func() error {
				log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchUps), i+1, cfg.Games)

				record, err := runGame(ctx, start, first, second, cfg.MaxMoves)
				if err != nil {
					return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
				}

				mu.Lock()
				defer mu.Unlock()
				summary.Games = append(summary.Games, metrics.GameRecord{
					Agent1:     first.ID,
					Agent2:     second.ID,
					GameMetric: record.Game,
				})
				for _, mm := range record.MoveMetrics {
					summary.Moves = append(summary.Moves, metrics.MoveRecord{
						Game:       record.Game.ID,
						MoveMetric: mm,
					})
				}

				log.Info().Msgf("completed matchup %d of %d game %d with winner: %q", mi+1, len(matchUps), i+1, record.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	log.Info().Msgf("completed %s experiment", name)

	// Store experiment metadata and results
	writer, err := metrics.NewWriter(cfg.OutDir, name)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	summary.Dir = writer.Dir()

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return Summary{}, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(summary.Games); err != nil {
		return Summary{}, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(summary.Moves); err != nil {
		return Summary{}, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return summary, nil
}

// runGame executes a single game between two agents, config1 moving first
func runGame(ctx context.Context, start *game.Chess, config1, config2 metrics.AgentConfig, maxMoves int) (engine.Record, error) {
	agents := []agent.Agent{
		agent.NewEvaluationAgent(createMCTS(config1)),
		agent.NewEvaluationAgent(createMCTS(config2)),
	}
	e := engine.LocalEngine(start, agents, engine.WithMaxMoves(maxMoves))
	return e.Run(ctx)
}

func createMCTS(config metrics.AgentConfig) *searcher.MCTS {
	options := []searcher.Option{}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}

	options = append(options, searcher.WithEvaluationFn(game.EvaluateMaterial), searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}
