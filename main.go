package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessmcts/config"
	"chessmcts/engine"
	"chessmcts/experiments"
	"chessmcts/game"
	"chessmcts/searcher"
	"chessmcts/searcher/agent"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "recommend", "One of recommend, selfplay, serve, experiment")
	configPath := flag.String("config", "", "Path to a YAML config file")
	fen := flag.String("fen", game.StartingFEN, "Position to search or start from")
	budget := flag.Duration("budget", 0, "Search time budget per move, overrides the config")
	exploration := flag.Float64("c", 0, "Exploration constant, overrides the config")
	episodes := flag.Int("episodes", 0, "Stop each search after this many episodes, overrides the config")
	experiment := flag.String("experiment", "exploration", "Experiment to run: exploration or cutoff")
	withProfile := flag.Bool("profile", false, "Write a CPU profile to the working directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *budget > 0 {
		cfg.Search.TimeBudget = *budget
	}
	if *exploration > 0 {
		cfg.Search.Exploration = *exploration
	}
	if *episodes > 0 {
		cfg.Search.Episodes = *episodes
	}
	if err := cfg.SetupLogging(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *withProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start, err := game.NewChess(*fen)
	if err != nil {
		log.Error().Err(err).Msg("invalid position")
		return
	}

	switch *mode {
	case "recommend":
		err = recommend(ctx, cfg, start)
	case "selfplay":
		err = selfPlay(ctx, cfg, start)
	case "serve":
		err = agent.NewServer(searchOptions(cfg)...).ListenAndServe(ctx, cfg.Server.Addr)
	case "experiment":
		err = runExperiment(ctx, cfg, start, *experiment)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Error().Err(err).Msgf("%s failed", *mode)
	}
}

func searchOptions(cfg config.Config) []searcher.Option {
	return append(cfg.SearchOptions(), searcher.WithEvaluationFn(game.EvaluateMaterial), searcher.WithMetrics())
}

func recommend(ctx context.Context, cfg config.Config, state *game.Chess) error {
	result, err := searcher.NewMCTS(searchOptions(cfg)...).Search(ctx, state)
	if err != nil {
		return err
	}
	san, err := state.SAN(result.Move)
	if err != nil {
		return err
	}

	log.Info().
		Int("episodes", result.Metric.Episodes).
		Int("full_playouts", result.Metric.FullPlayouts).
		Dur("duration", result.Metric.Duration).
		Bool("fallback", result.Fallback).
		Msg("search complete")
	fmt.Printf("%s %s\n", result.Move, san)
	return nil
}

func selfPlay(ctx context.Context, cfg config.Config, start *game.Chess) error {
	agents := []agent.Agent{
		agent.NewEvaluationAgent(searcher.NewMCTS(searchOptions(cfg)...)),
		agent.NewEvaluationAgent(searcher.NewMCTS(searchOptions(cfg)...)),
	}
	e := engine.LocalEngine(start, agents, engine.WithMaxMoves(cfg.Experiment.MaxMoves))

	record, err := e.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(record.Game.PGN)
	return nil
}

func runExperiment(ctx context.Context, cfg config.Config, start *game.Chess, name string) error {
	began := time.Now()

	var summary experiments.Summary
	var err error
	switch name {
	case "exploration":
		summary, err = experiments.RunExplorationExperiment(ctx, cfg.Experiment, start)
	case "cutoff":
		summary, err = experiments.RunCutoffExperiment(ctx, cfg.Experiment, start)
	default:
		return fmt.Errorf("unknown experiment %q", name)
	}
	if err != nil {
		return err
	}

	log.Info().Msgf("%d games written to %s in %s", len(summary.Games), summary.Dir, time.Since(began))
	return nil
}
