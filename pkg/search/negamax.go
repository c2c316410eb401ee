package search

import (
	"github.com/seekerror/c4solver/pkg/board"
	"go.uber.org/atomic"
)

// Searcher runs negamax over a single shared TranspositionTable using one
// fixed column order. It is not safe for concurrent use by more than one
// goroutine at a time -- the multi-threaded driver (Run) gives each
// worker its own Searcher, all pointing at the same table.
type Searcher struct {
	tt    *TranspositionTable
	order [board.Width]board.Column

	abort *atomic.Bool
	nodes *atomic.Uint64
	hits  *atomic.Uint64

	// canBeSymmetric is computed once per root position: while still true
	// at a given node (moves < symmetryMoveLimit), a beta-cutoff bound is
	// also stored under the position's mirrored key.
	canBeSymmetric bool

	// aborted latches once this goroutine has observed the shared abort
	// flag, short-circuiting every subsequent call without re-checking it.
	aborted bool
	// localNodes counts nodes visited by this Searcher, for the 1024-node
	// abort-check cadence.
	localNodes uint64
}

// symmetryMoveLimit bounds how long into the game mirrored-key storage is
// worth its extra write: past this ply a mirrored reflection is too rare
// to be worth the second Put.
const symmetryMoveLimit = 10

// NewSearcher returns a Searcher exploring columns in the given order,
// sharing tt and the abort flag/node counter with the rest of a solve.
func NewSearcher(tt *TranspositionTable, order [board.Width]board.Column, abort *atomic.Bool, nodes, hits *atomic.Uint64, canBeSymmetric bool) *Searcher {
	return &Searcher{tt: tt, order: order, abort: abort, nodes: nodes, hits: hits, canBeSymmetric: canBeSymmetric}
}

// Negamax returns the exact score of pos if it lies within [alpha, beta],
// otherwise a bound: a return value <= alpha is an upper bound, a return
// value >= beta is a lower bound. Preconditions (undefined if violated):
// alpha < beta and !pos.CanWinNext(). The window need not be pre-narrowed
// to the theoretical score range; Negamax tightens it itself.
func (s *Searcher) Negamax(pos board.Position, alpha, beta int) int {
	if s.aborted {
		return 0
	}
	s.localNodes++
	s.nodes.Add(1)
	if s.localNodes%1024 == 0 && s.abort.Load() {
		s.aborted = true
		return 0
	}

	possible := pos.PossibleNonLosingMoves()
	if possible == 0 {
		// Every move hands the opponent an immediate win, or there is no
		// move at all: the player to move loses to the opponent's next
		// stone, the most negative score at this ply.
		return -pos.NumStonesLeft(0)
	}
	if pos.Moves() >= board.Width*board.Height-2 {
		// At most one empty cell remains after this move: no four-in-a-row
		// is possible for either side.
		return 0
	}

	min := -pos.NumStonesLeft(-2)
	if alpha < min {
		alpha = min
		if alpha >= beta {
			return alpha
		}
	}
	max := pos.NumStonesLeft(-1)
	if beta > max {
		beta = max
		if alpha >= beta {
			return beta
		}
	}

	key := pos.Key()
	var hintCol board.Column
	haveHint := false
	if e, ok := s.tt.Get(key); ok {
		if isLowerBound(e.Score) {
			lb := DecodeLowerBound(int(e.Score))
			if alpha < lb {
				alpha = lb
				if alpha >= beta {
					s.hits.Add(1)
					return alpha
				}
			}
		} else {
			ub := DecodeUpperBound(int(e.Score))
			if beta > ub {
				beta = ub
				if alpha >= beta {
					s.hits.Add(1)
					return beta
				}
			}
		}
		hintCol = e.Column
		haveHint = true
	}

	var sorter MoveSorter
	for i := board.Width - 1; i >= 0; i-- {
		col := s.order[i]
		if haveHint && col == hintCol {
			continue
		}
		bmove := possible & board.ColumnMask(col)
		if bmove != 0 {
			sorter.Add(bmove, col, pos.MoveScore(bmove))
		}
	}
	if haveHint {
		if bmove := possible & board.ColumnMask(hintCol); bmove != 0 {
			sorter.Add(bmove, hintCol, board.Width+1)
		}
	}

	bestCol := board.Column(0)
	for {
		bmove, col, ok := sorter.Next()
		if !ok {
			break
		}

		next := pos
		next.Play(bmove)
		score := -s.Negamax(next, -beta, -alpha)
		if s.aborted {
			return 0
		}

		if score >= beta {
			s.tt.Put(key, EncodeLowerBound(score), col)
			if s.canBeSymmetric && pos.Moves() < symmetryMoveLimit {
				s.tt.Put(pos.MirroredKey(), EncodeLowerBound(score), col)
			}
			return score
		}
		if score > alpha {
			alpha = score
			bestCol = col
		}
	}

	s.tt.Put(key, EncodeUpperBound(alpha), bestCol)
	return alpha
}
