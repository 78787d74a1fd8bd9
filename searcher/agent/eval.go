package agent

import (
	"context"

	"chessmcts/experiments/metrics"
	"chessmcts/game"
	"chessmcts/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
// It always plays the most visited move.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	result, err := a.mcts.Search(ctx, state)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}
	return result.Move, result.Metric, nil
}
