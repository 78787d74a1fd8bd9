package engine

import (
	"context"
	"testing"
	"time"

	"chessmcts/experiments/metrics"
	"chessmcts/game"
	"chessmcts/searcher"
	"chessmcts/searcher/agent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// scriptedAgent plays its moves in order
type scriptedAgent struct {
	moves []game.Move
	next  *int
}

func newScriptedAgent(moves ...game.Move) scriptedAgent {
	return scriptedAgent{moves: moves, next: new(int)}
}

func (a scriptedAgent) FindMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	move := a.moves[*a.next]
	*a.next++
	return move, metrics.SearchMetric{Episodes: 1}, nil
}

func searchAgent(seed uint64) agent.Agent {
	return agent.NewEvaluationAgent(searcher.NewMCTS(
		searcher.WithEpisodes(200),
		searcher.WithDuration(time.Minute),
		searcher.WithCutoff(6),
		searcher.WithEvaluationFn(game.EvaluateMaterial),
		searcher.WithRandom(rand.New(rand.NewSource(seed))),
	))
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("playing to checkmate", func(t *testing.T) {
		agents := []agent.Agent{
			newScriptedAgent("f2f3", "g2g4"),
			newScriptedAgent("e7e5", "d8h4"),
		}
		e := LocalEngine(game.StartingChess(), agents)

		record, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, "b", record.Winner, "Black delivered mate")
		require.Equal(t, []game.Move{"f2f3", "e7e5", "g2g4", "d8h4"}, record.Moves)
		require.True(t, record.Final.IsDecisive())
		require.Len(t, record.MoveMetrics, 4)
		require.Equal(t, metrics.MoveMetric{Step: 2, Player: "b", Move: "e7e5", SearchMetric: metrics.SearchMetric{Episodes: 1}}, record.MoveMetrics[1])
		require.Equal(t, "w", record.Game.Starting)
		require.Equal(t, 4, record.Game.TotalMoves)
		require.Contains(t, record.Game.PGN, "0-1")
		_, err = uuid.Parse(record.Game.ID)
		require.NoError(t, err, "Game id should be a uuid")
	})

	t.Run("searching agent mates in one", func(t *testing.T) {
		start, err := game.NewChess("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
		require.NoError(t, err)
		e := LocalEngine(start, []agent.Agent{searchAgent(1), searchAgent(2)})

		record, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, "w", record.Winner)
		require.Equal(t, []game.Move{"a1a8"}, record.Moves)
	})

	t.Run("stopping at the move limit", func(t *testing.T) {
		e := LocalEngine(game.StartingChess(), []agent.Agent{searchAgent(3), searchAgent(4)}, WithMaxMoves(3))

		record, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Len(t, record.Moves, 3)
		require.Empty(t, record.Winner, "Unfinished game has no winner")
		require.Equal(t, "b", record.Final.Player())
	})

	t.Run("illegal move fails the game", func(t *testing.T) {
		agents := []agent.Agent{newScriptedAgent("e2e5"), newScriptedAgent()}
		e := LocalEngine(game.StartingChess(), agents)

		_, err := e.Run(context.Background())

		require.ErrorIs(t, err, game.ErrIllegalMove)
	})

	t.Run("cancelled game", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := LocalEngine(game.StartingChess(), []agent.Agent{searchAgent(5), searchAgent(6)})

		_, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalEngineNeedsTwoAgents(t *testing.T) {
	require.Panics(t, func() {
		LocalEngine(game.StartingChess(), []agent.Agent{searchAgent(7)})
	})
}
