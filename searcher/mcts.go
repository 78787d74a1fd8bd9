package searcher

import (
	"context"
	"fmt"
	"time"

	"chessmcts/experiments/metrics"
	"chessmcts/game"

	"github.com/rs/zerolog/log"
)

type Option func(mcts *MCTS)

// Result of a search from one position
type Result struct {
	Move     game.Move
	Policy   map[game.Move]float64 // Visit counts of the root's children
	Metric   metrics.SearchMetric
	Fallback bool // No child was expanded, Move is a random legal move
}

// MCTS is a single-threaded UCT searcher. It is not safe for concurrent use:
// each goroutine needs its own MCTS.
type MCTS struct {
	duration    time.Duration
	exploration float64
	episodes    int
	cutoff      int
	evaluate    game.Evaluate
	random      Random
	rollout     Rollout
	reuse       bool
	root        *node
	metrics     metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.exploration = c
		}
	}
}

// WithEpisodes stops the search after a number of episodes, or at the deadline
// if that comes first
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithRandom(random Random) Option {
	return func(m *MCTS) {
		if random != nil {
			m.random = random
		}
	}
}

// WithRollout replaces the random playout
func WithRollout(rollout Rollout) Option {
	return func(m *MCTS) {
		if rollout != nil {
			m.rollout = rollout
		}
	}
}

// WithTreeReuse keeps the tree between searches and continues from the
// subtree matching the next position when there is one
func WithTreeReuse() Option {
	return func(m *MCTS) {
		m.reuse = true
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		duration:    DefaultDuration,
		exploration: DefaultExploration,
		cutoff:      MaxCutoff,
		evaluate:    evaluateNeutral,
		random:      fastRandom{},
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rollout == nil {
		m.rollout = m.playout
	}
	return m
}

// RecommendMove searches state until the time budget is spent and returns the
// most visited move. It blocks for up to the configured duration.
func (m *MCTS) RecommendMove(ctx context.Context, state game.State) (game.Move, error) {
	result, err := m.Search(ctx, state)
	if err != nil {
		return "", err
	}
	return result.Move, nil
}

// Search builds a tree from state until the deadline, the episode limit or ctx
// is done. Without any expanded child, terminal states with legal moves
// included, the move is picked at random among the legal moves.
func (m *MCTS) Search(ctx context.Context, state game.State) (Result, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrTerminalPosition, state.Key())
	}

	root := m.findRoot(state)
	if m.reuse {
		m.root = root
	}

	m.metrics.Start(m.cutoff)
	// A terminal root is never expanded
	if !state.IsTerminal() {
		if err := m.buildTree(ctx, root, time.Now().Add(m.duration)); err != nil {
			m.metrics.Complete()
			return Result{}, err
		}
	}

	result := Result{Policy: root.policy()}
	if best := root.mostVisited(); best != nil {
		result.Move = best.move
	} else {
		log.Warn().Msgf("no child expanded from %s, falling back to a random move", state.Key())
		result.Move = moves[m.random.Intn(len(moves))]
		result.Fallback = true
		m.metrics.SetFallback(true)
	}
	result.Metric = m.metrics.Complete()

	log.Debug().
		Str("move", string(result.Move)).
		Int("visits", root.visits).
		Int("children", len(root.children)).
		Bool("fallback", result.Fallback).
		Msgf("searched %s", state.Key())

	return result, nil
}

func (m *MCTS) findRoot(state game.State) *node {
	if m.reuse && m.root != nil {
		if root := m.root.find(state.Key(), reuseDepth); root != nil {
			root.parent = nil
			root.move = ""
			m.metrics.SetTreeReset(false)
			return root
		}
		log.Debug().Msgf("no subtree for %s, starting a new tree", state.Key())
	}
	m.metrics.SetTreeReset(true)
	return newNode(nil, "", state)
}

func (m *MCTS) buildTree(ctx context.Context, root *node, deadline time.Time) error {
	for episode := 0; m.episodes <= 0 || episode < m.episodes; episode++ {
		if ctx.Err() != nil || !time.Now().Before(deadline) {
			return nil
		}
		if err := m.simulate(root); err != nil {
			return err
		}
		m.metrics.AddEpisode()
	}
	return nil
}

func (m *MCTS) simulate(root *node) error {
	current := root

	// Selection
	for current.isFullyExpanded() && !current.isLeaf() {
		current = current.selectChild(m.exploration)
	}

	// Expansion
	if !current.state.IsTerminal() {
		if len(current.moves) == 0 {
			return fmt.Errorf("%w: %s is not terminal but has no legal moves", ErrOracleContract, current.state.Key())
		}
		child, err := current.expand()
		if err != nil {
			return err
		}
		if child != nil {
			current = child
		}
	}

	// Simulation
	reward, err := m.rollout(current.state, m.random)
	if err != nil {
		return err
	}

	// Backpropagation
	current.backup(reward)
	return nil
}
