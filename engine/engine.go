package engine

import (
	"chessmcts/experiments/metrics"
	"chessmcts/game"
)

// MaxMoves bounds a game in plies unless the engine is configured otherwise
const MaxMoves = 10000

// Record of a finished game
type Record struct {
	Winner      string // Player who delivered the decisive result, "" for a draw or an unfinished game
	Moves       []game.Move
	Final       game.State
	Game        metrics.GameMetric
	MoveMetrics []metrics.MoveMetric
}
