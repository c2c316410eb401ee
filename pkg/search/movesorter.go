package search

import (
	"fmt"
	"github.com/seekerror/c4solver/pkg/board"
)

// moveSorterCapacity is the maximum number of candidate moves any
// position can offer: one per column.
const moveSorterCapacity = board.Width

// entry is one candidate move awaiting consumption, ordered ascending by
// score within MoveSorter.
type entry struct {
	bmove board.Bitboard
	col   board.Column
	score int
}

// MoveSorter is a small-N insertion-sorted list of candidate moves. Add
// inserts a move keeping the backing array sorted ascending by score;
// Next consumes moves from the top (descending score), destructively. It
// is a one-shot ordered container, not a reusable iterator: once
// drained, it holds nothing.
type MoveSorter struct {
	size    int
	entries [moveSorterCapacity]entry
}

// Add inserts bmove/col with the given heuristic score. Equal scores are
// stored in insertion order, so a later Add with an equal score is
// returned before an earlier one on Next, since a strictly-greater check
// is used to decide how far to shift.
func (s *MoveSorter) Add(bmove board.Bitboard, col board.Column, score int) {
	pos := s.size
	for pos != 0 && s.entries[pos-1].score > score {
		s.entries[pos] = s.entries[pos-1]
		pos--
	}
	s.entries[pos] = entry{bmove: bmove, col: col, score: score}
	s.size++
}

// Next returns the highest-scoring remaining move and removes it. The ok
// result is false once every added move has been consumed.
func (s *MoveSorter) Next() (board.Bitboard, board.Column, bool) {
	if s.size == 0 {
		return 0, 0, false
	}
	s.size--
	e := s.entries[s.size]
	return e.bmove, e.col, true
}

// Size returns the number of moves not yet consumed.
func (s *MoveSorter) Size() int {
	return s.size
}

// Reset empties the container so it can be reused.
func (s *MoveSorter) Reset() {
	s.size = 0
}

func (s *MoveSorter) String() string {
	if s.size == 0 {
		return "[size=0]"
	}
	top := s.entries[s.size-1]
	return fmt.Sprintf("[top=col%v@%v, size=%v]", top.col, top.score, s.size)
}
