// Package solver provides the top-level facade over board, search, and
// book: solving a position, analyzing every column, and growing an
// opening book.
package solver

import (
	"context"
	"github.com/seekerror/c4solver/pkg/board"
	"github.com/seekerror/c4solver/pkg/book"
	"github.com/seekerror/c4solver/pkg/search"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// InvalidMove is the sentinel Analyze uses for a column that cannot be
// played.
const InvalidMove = -1000

// Option configures a Solver at construction time.
type Option func(*Solver)

// WithBook attaches an opening book consulted before falling back to
// full search.
func WithBook(b *book.Book) Option {
	return func(s *Solver) { s.book = b }
}

// WithTableLogSize overrides the transposition table's default capacity
// (next_prime(2^logSize) entries).
func WithTableLogSize(logSize int) Option {
	return func(s *Solver) { s.ttLogSize = logSize }
}

// WithThreads sets how many worker goroutines Solve spreads search over.
// The default is 1.
func WithThreads(threads int) Option {
	return func(s *Solver) { s.threads = threads }
}

// Solver ties together a transposition table, an optional opening book,
// and the negamax driver into the operations a caller actually wants:
// solving a position, scoring every legal reply, and growing a book.
type Solver struct {
	ctx  context.Context
	tt   *search.TranspositionTable
	book *book.Book

	ttLogSize int
	threads   int

	nodeCount atomic.Uint64
	ttHits    atomic.Uint64
}

// New returns a ready-to-use Solver.
func New(ctx context.Context, opts ...Option) *Solver {
	s := &Solver{ctx: ctx, threads: 1}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttLogSize > 0 {
		s.tt = search.NewTranspositionTableOfLogSize(ctx, s.ttLogSize)
	} else {
		s.tt = search.NewTranspositionTable(ctx)
	}
	return s
}

// SetBook attaches or replaces the opening book consulted by Solve.
func (s *Solver) SetBook(b *book.Book) {
	s.book = b
}

// Book returns the attached opening book, or nil.
func (s *Solver) Book() *book.Book {
	return s.book
}

// ResetTranspositionTable clears every cached bound.
func (s *Solver) ResetTranspositionTable() {
	s.tt.Reset()
}

// NodeCount returns the number of nodes visited by Solve/Analyze calls
// since the last ResetCounters.
func (s *Solver) NodeCount() uint64 {
	return s.nodeCount.Load()
}

// TTHits returns the number of transposition-table cutoffs since the
// last ResetCounters.
func (s *Solver) TTHits() uint64 {
	return s.ttHits.Load()
}

// ResetNodeCount zeroes the node counter.
func (s *Solver) ResetNodeCount() {
	s.nodeCount.Store(0)
}

// ResetTTHits zeroes the transposition-table hit counter.
func (s *Solver) ResetTTHits() {
	s.ttHits.Store(0)
}

// ResetCounters zeroes both the node and transposition-table hit
// counters.
func (s *Solver) ResetCounters() {
	s.ResetNodeCount()
	s.ResetTTHits()
}

// Solve returns the score of pos: positive means the player to move
// wins, negative means they lose, zero is a draw under best play. If
// weak, only the sign is guaranteed correct -- the magnitude is not a
// reliable distance-to-win. A positive score of k means the player to
// move wins with their (NumStonesLeft(1)-k+1)-th stone; see
// ScoreToMovesToWin.
func (s *Solver) Solve(pos board.Position, weak bool) int {
	if pos.CanWinNext() {
		return pos.NumStonesLeft(1)
	}
	if s.book != nil {
		if score, ok := s.book.Get(pos); ok {
			logw.Debugf(s.ctx, "Position in opening book: %v", pos)
			return score
		}
	}

	r := search.Run(s.ctx, s.tt, pos, weak, s.threads)
	s.nodeCount.Add(r.Nodes)
	s.ttHits.Add(r.Hits)
	return r.Score
}

// Analyze returns, for every column, the score of playing it: the
// negated Solve of the resulting position, NumStonesLeft(1) if the move
// wins immediately, or InvalidMove if the column is already full.
func (s *Solver) Analyze(pos board.Position, weak bool) [board.Width]int {
	var scores [board.Width]int
	for col := 0; col < board.Width; col++ {
		if !pos.CanPlay(col) {
			scores[col] = InvalidMove
			continue
		}
		if pos.IsWinningMove(col) {
			scores[col] = pos.NumStonesLeft(1)
			continue
		}
		next := pos
		next.PlayCol(col)
		scores[col] = -s.Solve(next, weak)
	}
	return scores
}

// ScoreToMovesToWin converts a Solve score into the number of moves the
// winning side needs to complete their alignment. A score of zero means
// a draw: the result is how many stones the side to move still places
// before the board fills.
func ScoreToMovesToWin(pos board.Position, score int) int {
	switch {
	case score > 0:
		return pos.NumStonesLeft(1) - score + 1
	case score < 0:
		return pos.NumStonesLeft(0) + score + 1
	default:
		return pos.NumStonesLeft(1)
	}
}

// GenerateBook recursively solves and records pos and every position
// reachable from it that has at most depth stones on the board (depth
// counts moves from the start of the game, not from pos, so nothing is
// recorded when pos.Moves() > depth), skipping subtrees already present
// in the book and any move that wins immediately (a won position is never
// worth a book entry: the win is already obvious to Analyze). It
// attaches an empty book first if none is set.
func (s *Solver) GenerateBook(pos board.Position, depth int) {
	if s.book == nil {
		s.book = book.New()
	} else if _, ok := s.book.Get(pos); ok {
		return
	}
	if pos.Moves() > depth {
		return
	}

	score := s.Solve(pos, false)
	logw.Infof(s.ctx, "Adding position to opening book: %v (score=%v)", pos, score)
	s.book.Put(pos, score)

	for col := 0; col < board.Width; col++ {
		if !pos.CanPlay(col) || pos.IsWinningMove(col) {
			continue
		}
		next := pos
		next.PlayCol(col)
		s.GenerateBook(next, depth)
	}
}
