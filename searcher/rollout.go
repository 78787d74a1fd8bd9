package searcher

import (
	"fmt"

	"chessmcts/game"
)

// Rollout estimates state and returns a reward in [LOSS, WIN] for the player
// who moved into state, i.e. the opponent of state.Player().
type Rollout func(state game.State, random Random) (float64, error)

// playout follows a uniformly random policy till the game ends or the cutoff is reached
func (m *MCTS) playout(state game.State, random Random) (float64, error) {
	start := state.Player()

	depth := 0
	for !state.IsTerminal() && depth < m.cutoff {
		moves := state.LegalMoves()
		if len(moves) == 0 {
			return 0, fmt.Errorf("%w: %s is not terminal but has no legal moves", ErrOracleContract, state.Key())
		}
		move := moves[random.Intn(len(moves))]
		next, err := state.Play(move)
		if err != nil {
			return 0, fmt.Errorf("%w: playing out %s from %s: %w", ErrOracleContract, move, state.Key(), err)
		}
		state = next
		depth++
	}

	// Value for the player to move in the final state
	var value float64
	if state.IsTerminal() {
		m.metrics.AddFullPlayout()
		value = DRAW
		if state.IsDecisive() { // Player to move has lost
			value = LOSS
		}
	} else {
		// At cutoff state, map the evaluation score from [-1, 1] to [LOSS, WIN]
		value = (m.evaluate(state) + 1) / 2
	}

	if state.Player() == start {
		return WIN - value, nil
	}
	return value, nil
}

func evaluateNeutral(game.State) float64 {
	return 0
}
