package solver_test

import (
	"context"
	"github.com/seekerror/c4solver/pkg/board"
	"github.com/seekerror/c4solver/pkg/book"
	"github.com/seekerror/c4solver/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func newTestSolver(t *testing.T) *solver.Solver {
	t.Helper()
	return solver.New(context.Background(), solver.WithTableLogSize(20), solver.WithThreads(2))
}

func TestSolveWinInOne(t *testing.T) {
	s := newTestSolver(t)
	pos := board.New()
	require.NoError(t, pos.PlaySequence([]int{4, 4, 5, 5, 6, 6}))
	require.True(t, pos.CanWinNext())

	assert.Equal(t, pos.NumStonesLeft(1), s.Solve(pos, false))
}

func TestSolveKnownMidgameScore(t *testing.T) {
	s := newTestSolver(t)
	pos := board.New()
	require.NoError(t, pos.PlaySequence([]int{4, 4, 5, 5}))

	assert.Equal(t, 18, s.Solve(pos, false))
}

func TestAnalyzeMarksFullColumnsInvalid(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping weak analysis of a six-stone position")
	}
	s := newTestSolver(t)
	pos := board.New()
	require.NoError(t, pos.PlaySequence([]int{1, 1, 1, 1, 1, 1}))
	require.False(t, pos.CanPlay(0))

	scores := s.Analyze(pos, true)
	assert.Equal(t, solver.InvalidMove, scores[0])
	for col := 1; col < board.Width; col++ {
		assert.NotEqual(t, solver.InvalidMove, scores[col])
	}
}

func TestAnalyzeAgreesWithSolveOfBestReply(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full analysis of a one-stone position")
	}
	s := newTestSolver(t)
	pos := board.New()
	require.NoError(t, pos.PlaySequence([]int{4}))

	scores := s.Analyze(pos, false)
	best := solver.InvalidMove
	for _, sc := range scores {
		if sc > best {
			best = sc
		}
	}
	assert.Equal(t, s.Solve(pos, false), best)
}

func TestAnalyzeEmptyBoardPrefersCenterAndIsSymmetric(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full analysis of the empty board")
	}
	s := newTestSolver(t)
	scores := s.Analyze(board.New(), false)

	center := scores[3]
	for col := 0; col < board.Width; col++ {
		assert.LessOrEqual(t, scores[col], center)
	}
	assert.Equal(t, scores[0], scores[6])
	assert.Equal(t, scores[1], scores[5])
	assert.Equal(t, scores[2], scores[4])
}

func TestScoreToMovesToWin(t *testing.T) {
	pos := board.New()
	require.NoError(t, pos.PlaySequence([]int{4, 4, 5, 5}))

	// The double threat resolves with the winner's second stone from here.
	assert.Equal(t, 2, solver.ScoreToMovesToWin(pos, 18))
}

func TestSolveConsultsBookBeforeSearching(t *testing.T) {
	s := newTestSolver(t)
	pos := board.New()

	b := book.New()
	b.Put(pos, 7)
	s.SetBook(b)

	assert.Equal(t, 7, s.Solve(pos, false))
	assert.Equal(t, uint64(0), s.NodeCount())
}

func TestResetCounters(t *testing.T) {
	s := newTestSolver(t)
	pos := board.New()
	require.NoError(t, pos.PlaySequence([]int{4, 4, 5, 5}))

	s.Solve(pos, false)
	assert.Positive(t, s.NodeCount())

	s.ResetCounters()
	assert.Equal(t, uint64(0), s.NodeCount())
	assert.Equal(t, uint64(0), s.TTHits())
}

func TestGenerateBookPopulatesReachablePositions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping book generation over full solves")
	}
	s := newTestSolver(t)
	s.GenerateBook(board.New(), 1)

	require.NotNil(t, s.Book())
	assert.Positive(t, s.Book().NumEntries())

	score, ok := s.Book().Get(board.New())
	require.True(t, ok)
	assert.Equal(t, 1, score)
}
