package game

import (
	"fmt"

	"github.com/notnil/chess"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Half-move clock value at which the fifty-move rule ends the game
const fiftyMoveClock = 100

var uci = chess.UCINotation{}

var pieceValues = map[chess.PieceType]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// Chess is a chess position backed by github.com/notnil/chess. Moves are
// identified by their UCI notation (e.g. "e2e4", "e7e8q").
// A Chess is read-only once built and can be shared between goroutines.
type Chess struct {
	pos *chess.Position
}

// newChess fills the lazy move cache of pos so later reads never write to it
func newChess(pos *chess.Position) *Chess {
	pos.ValidMoves()
	return &Chess{pos: pos}
}

// NewChess parses a position from FEN
func NewChess(fen string) (*Chess, error) {
	option, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fen %q: %w", fen, err)
	}
	return newChess(chess.NewGame(option).Position()), nil
}

func StartingChess() *Chess {
	return newChess(chess.NewGame().Position())
}

// Player returns "w" or "b"
func (c *Chess) Player() string {
	return c.pos.Turn().String()
}

func (c *Chess) LegalMoves() []Move {
	valid := c.pos.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = Move(uci.Encode(c.pos, m))
	}
	return moves
}

func (c *Chess) Play(move Move) (State, error) {
	m, err := c.find(move)
	if err != nil {
		return nil, err
	}
	return newChess(c.pos.Update(m)), nil
}

// IsTerminal covers checkmate, stalemate, the fifty-move rule and positions
// where neither side has mating material. Repetitions are not tracked since a
// position carries no history.
func (c *Chess) IsTerminal() bool {
	if c.pos.Status() != chess.NoMethod {
		return true
	}
	return c.pos.HalfMoveClock() >= fiftyMoveClock || insufficientMaterial(c.pos.Board())
}

func (c *Chess) IsDecisive() bool {
	return c.pos.Status() == chess.Checkmate
}

// Key returns the FEN of the position
func (c *Chess) Key() string {
	return c.pos.String()
}

// SAN converts a legal UCI move into standard algebraic notation
func (c *Chess) SAN(move Move) (string, error) {
	m, err := c.find(move)
	if err != nil {
		return "", err
	}
	return chess.AlgebraicNotation{}.Encode(c.pos, m), nil
}

func (c *Chess) find(move Move) (*chess.Move, error) {
	for _, m := range c.pos.ValidMoves() {
		if uci.Encode(c.pos, m) == string(move) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrIllegalMove, move, c.pos.String())
}

// Bare kings, or kings with a single knight or bishop
func insufficientMaterial(board *chess.Board) bool {
	minors := 0
	for _, piece := range board.SquareMap() {
		switch piece.Type() {
		case chess.King:
		case chess.Knight, chess.Bishop:
			minors++
		default:
			return false
		}
	}
	return minors <= 1
}

// EvaluateMaterial scores the material balance between -1 and 1 from the
// perspective of the side to move.
func EvaluateMaterial(s State) float64 {
	c, ok := s.(*Chess)
	if !ok {
		panic("unexpected state type")
	}

	turn := c.pos.Turn()
	own, other := 0.0, 0.0
	for _, piece := range c.pos.Board().SquareMap() {
		value := pieceValues[piece.Type()]
		if piece.Color() == turn {
			own += value
		} else {
			other += value
		}
	}
	if own+other == 0 {
		return 0
	}
	return (own - other) / (own + other)
}

// PGN replays UCI moves from start and renders the game in PGN
func PGN(start *Chess, moves []Move) (string, error) {
	option, err := chess.FEN(start.Key())
	if err != nil {
		return "", fmt.Errorf("failed to parse fen %q: %w", start.Key(), err)
	}
	g := chess.NewGame(option, chess.UseNotation(uci))
	for i, move := range moves {
		if err := g.MoveStr(string(move)); err != nil {
			return "", fmt.Errorf("failed to replay move %d (%s): %w", i+1, move, err)
		}
	}
	return g.String(), nil
}
