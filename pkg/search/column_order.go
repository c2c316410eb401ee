package search

import "github.com/seekerror/c4solver/pkg/board"

// Order1 and Order2 are the compile-time column exploration orders used
// by negamax's move-generation step: columns are visited inside-out from
// the center, since central columns participate in more four-in-a-row
// lines and tend to cut off search earlier. Order1 is left-biased -- its
// entry i is Width/2 + (1-2*(i%2))*(i+1)/2 -- and Order2 is its mirror
// image, right-biased; both are written out as literals since Width is a
// compile-time constant.
var (
	Order1 = [board.Width]board.Column{3, 2, 4, 1, 5, 0, 6}
	Order2 = [board.Width]board.Column{3, 4, 2, 5, 1, 6, 0}
)

// OrderForThread returns the column order a worker thread should use:
// even-numbered threads explore center-out biased left, odd-numbered
// biased right, so that threads sharing one transposition table diverge
// in the subtrees they visit first and cross-pollinate via stored bounds.
func OrderForThread(thread int) [board.Width]board.Column {
	if thread%2 == 0 {
		return Order1
	}
	return Order2
}
