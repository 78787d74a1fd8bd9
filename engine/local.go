package engine

import (
	"context"
	"fmt"
	"time"

	"chessmcts/experiments/metrics"
	"chessmcts/game"
	"chessmcts/searcher/agent"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Option func(e *Engine)

// Engine plays a game between two agents, alternating every ply
type Engine struct {
	start    game.State
	agents   []agent.Agent
	maxMoves int
}

func WithMaxMoves(moves int) Option {
	return func(e *Engine) {
		if moves > 0 {
			e.maxMoves = moves
		}
	}
}

// LocalEngine sets up a game from start where agents[0] moves first
func LocalEngine(start game.State, agents []agent.Agent, options ...Option) *Engine {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}

	e := &Engine{
		start:    start,
		agents:   agents,
		maxMoves: MaxMoves,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until the game ends or the move limit is reached
func (e *Engine) Run(ctx context.Context) (Record, error) {
	id := uuid.NewString()
	startTime := time.Now()
	state := e.start
	moves := []game.Move{}
	moveMetrics := []metrics.MoveMetric{}
	lastPlayer := ""

	log.Info().Str("game", id).Msgf("player %s is starting", state.Player())

	for step := 1; !state.IsTerminal() && step <= e.maxMoves; step++ {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}

		player := state.Player()
		move, metric, err := e.agents[(step-1)%2].FindMove(ctx, state)
		if err != nil {
			return Record{}, fmt.Errorf("game %s step %d: failed to find move: %w", id, step, err)
		}
		next, err := state.Play(move)
		if err != nil {
			return Record{}, fmt.Errorf("game %s step %d: player %s: %w", id, step, player, err)
		}

		moves = append(moves, move)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         string(move),
			SearchMetric: metric,
		})
		log.Debug().Str("game", id).Msgf("step %d: player %s played %s", step, player, move)

		lastPlayer = player
		state = next
	}

	winner := ""
	if state.IsTerminal() && state.IsDecisive() {
		winner = lastPlayer
	}
	if !state.IsTerminal() {
		log.Info().Str("game", id).Msgf("stopped after %d moves without a result", len(moves))
	}

	endTime := time.Now()
	record := Record{
		Winner:      winner,
		Moves:       moves,
		Final:       state,
		MoveMetrics: moveMetrics,
		Game: metrics.GameMetric{
			ID:         id,
			Starting:   e.start.Player(),
			Winner:     winner,
			StartTime:  startTime,
			EndTime:    endTime,
			Duration:   endTime.Sub(startTime),
			TotalMoves: len(moves),
		},
	}

	if start, ok := e.start.(*game.Chess); ok {
		pgn, err := game.PGN(start, moves)
		if err != nil {
			return Record{}, fmt.Errorf("game %s: %w", id, err)
		}
		record.Game.PGN = pgn
	}

	log.Info().Str("game", id).Msgf("game over after %d moves, winner: %q", len(moves), winner)
	return record, nil
}
