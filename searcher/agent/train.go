package agent

import (
	"context"
	"math"
	"slices"

	"chessmcts/experiments/metrics"
	"chessmcts/game"
	"chessmcts/searcher"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	random      Random
}

// Random draws the sampling point for a move
type Random interface {
	Float64() float64
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples moves in proportion to visits^(1/temperature), so games started from
// the same position diverge.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, random Random) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return trainingAgent{mcts: mcts, temperature: temperature, random: random}
}

func (a trainingAgent) FindMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	result, err := a.mcts.Search(ctx, state)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}
	if result.Fallback {
		return result.Move, result.Metric, nil
	}
	policy := adjustTemperature(result.Policy, a.temperature)
	return sample(policy, a.random.Float64()), result.Metric, nil
}

func adjustTemperature(policy map[game.Move]float64, temperature float64) map[game.Move]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Move]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks moves in sorted order so a seeded source replays the same choice
func sample(policy map[game.Move]float64, sampled float64) game.Move {
	cumulative := 0.0
	var lastMove game.Move
	moves := make([]game.Move, 0, len(policy))
	for move := range policy {
		moves = append(moves, move)
	}
	slices.Sort(moves)
	for _, move := range moves {
		lastMove = move
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
