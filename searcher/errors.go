package searcher

import "errors"

var (
	// ErrTerminalPosition is returned when asked to move in a position that has no legal moves
	ErrTerminalPosition = errors.New("no legal moves in terminal position")
	// ErrOracleContract means the game state disagreed with itself, e.g. it
	// rejected a move it listed as legal
	ErrOracleContract = errors.New("game state violated its contract")
)
