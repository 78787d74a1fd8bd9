package searcher

import (
	"fmt"
	"math"

	"chessmcts/game"
)

// node owns its children. parent is only used to walk back up during backup.
type node struct {
	parent   *node
	move     game.Move // Move played from parent to reach this node, "" for the root
	state    game.State
	moves    []game.Move // Legal moves, cached since states are immutable
	children []*node
	rewards  float64 // Summed rewards of the player who moved into this node
	visits   int
}

func newNode(parent *node, move game.Move, state game.State) *node {
	moves := state.LegalMoves()
	return &node{
		parent:   parent,
		move:     move,
		state:    state,
		moves:    moves,
		children: make([]*node, 0, len(moves)),
	}
}

func (n *node) isFullyExpanded() bool {
	return len(n.children) == len(n.moves)
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

// expand adds a child for the first legal move without one. Children are
// added in move order, so the untried moves are exactly moves[len(children):].
func (n *node) expand() (*node, error) {
	if n.isFullyExpanded() {
		return nil, nil
	}

	move := n.moves[len(n.children)]
	state, err := n.state.Play(move)
	if err != nil {
		return nil, fmt.Errorf("%w: expanding %s from %s: %w", ErrOracleContract, move, n.state.Key(), err)
	}
	child := newNode(n, move, state)
	n.children = append(n.children, child)
	return child, nil
}

// selectChild returns the first child with the maximum UCT score
func (n *node) selectChild(exploration float64) *node {
	policy := newUCT(exploration, n.visits)

	var best *node
	maxScore := math.Inf(-1)
	for _, child := range n.children {
		if score := policy.score(child.rewards, child.visits); score > maxScore {
			maxScore = score
			best = child
		}
	}
	return best
}

// backup credits reward to n and alternates it on the way up to the root
func (n *node) backup(reward float64) {
	for current := n; current != nil; current = current.parent {
		current.visits++
		current.rewards += reward
		reward = WIN - reward
	}
}

// mostVisited returns the robust child, the first one on ties, or nil for a leaf
func (n *node) mostVisited() *node {
	var best *node
	for _, child := range n.children {
		if best == nil || child.visits > best.visits {
			best = child
		}
	}
	return best
}

// policy maps each expanded move to its visit count
func (n *node) policy() map[game.Move]float64 {
	policy := make(map[game.Move]float64, len(n.children))
	for _, child := range n.children {
		policy[child.move] = float64(child.visits)
	}
	return policy
}

// find looks for a descendant at most depth plies below n whose state has key
func (n *node) find(key string, depth int) *node {
	level := []*node{n}
	for d := 0; d <= depth && len(level) > 0; d++ {
		var next []*node
		for _, candidate := range level {
			if candidate.state.Key() == key {
				return candidate
			}
			next = append(next, candidate.children...)
		}
		level = next
	}
	return nil
}
