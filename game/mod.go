package game

import "errors"

// Move identifies a legal transition from a given State. Two equal moves played
// from the same State lead to the same State.
type Move string

var ErrIllegalMove = errors.New("illegal move")

// State should be immutable - operations on State always return a new copy
type State interface {
	// Player returns the side to move
	Player() string
	// LegalMoves enumerates moves in a stable order for a given position.
	// It may only be empty if the position is terminal.
	LegalMoves() []Move
	// Play fails with ErrIllegalMove if move is not legal in this position
	Play(move Move) (State, error)
	IsTerminal() bool
	// IsDecisive reports whether a terminal position has a winner. The side to
	// move in a decisive position has lost.
	IsDecisive() bool
	// Key is a canonical text form of the position
	Key() string
}

// Evaluates the game state to a score between -1 and 1 indicating how
// favorable the current player's position is to a winning (positive) outcome.
type Evaluate func(State) float64

