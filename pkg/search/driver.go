package search

import (
	"context"
	"github.com/seekerror/c4solver/pkg/board"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
	"sync"
)

// Result is the outcome of a Run: the exact (or, in weak mode, sign-only)
// score of the root position, and the total node count summed across
// every worker thread.
type Result struct {
	Score int
	Nodes uint64
	Hits  uint64
}

// Run solves pos by driving Negamax through null-window iterative
// narrowing (the MTD(f)-style "med" search), spreading threads workers
// over the shared table, each with its own column exploration order.
// Precondition: !pos.CanWinNext() -- callers check that case (and any
// opening-book hit) before reaching Run.
//
// Every worker runs the same convergence loop over the same root window
// independently; the table they share means their search paths diverge
// and a cutoff found by one thread can shortcut another's subtree. The
// first worker to converge publishes the score and raises the abort
// flag; the rest observe it -- at the next 1024-node check inside
// Negamax, or at the top of their own loop -- and unwind early. The
// score is stored before the abort flag is raised, so by the time Run
// returns after joining every goroutine, the published score is visible
// to the caller without further synchronization.
func Run(ctx context.Context, tt *TranspositionTable, pos board.Position, weak bool, threads int) Result {
	if threads < 1 {
		threads = 1
	}

	min := -pos.NumStonesLeft(0)
	max := pos.NumStonesLeft(1)
	if weak {
		min, max = -1, 1
	}

	canBeSymmetric := pos.CanBecomeSymmetric()

	var claimed, abort atomic.Bool
	var scoreCell atomic.Int64
	nodeCounts := make([]atomic.Uint64, threads)
	hitCounts := make([]atomic.Uint64, threads)

	var wg sync.WaitGroup
	wg.Add(threads)
	for t := 0; t < threads; t++ {
		t := t
		go func() {
			defer wg.Done()

			s := NewSearcher(tt, OrderForThread(t), &abort, &nodeCounts[t], &hitCounts[t], canBeSymmetric)
			lo, hi := min, max
			for lo < hi && !abort.Load() {
				med := narrow(lo, hi)

				r := s.Negamax(pos, med, med+1)
				if s.aborted || abort.Load() {
					return
				}
				if r <= med {
					hi = r
				} else {
					lo = r
				}
			}
			if abort.Load() {
				return
			}

			if claimed.CAS(false, true) {
				scoreCell.Store(int64(lo))
				abort.Store(true)
			}
		}()
	}
	wg.Wait()

	var nodes, hits uint64
	for i := range nodeCounts {
		nodes += nodeCounts[i].Load()
		hits += hitCounts[i].Load()
	}

	score := int(scoreCell.Load())
	logw.Debugf(ctx, "Solved root (threads=%v, weak=%v): score=%v nodes=%v hits=%v", threads, weak, score, nodes, hits)
	return Result{Score: score, Nodes: nodes, Hits: hits}
}

// narrow picks the next null-window center between lo and hi: the
// midpoint, except that a midpoint lying between zero and half the bound
// on its own side (lo/2 when it is <= 0, hi/2 when it is >= 0) is moved
// out to that half-bound, away from zero.
func narrow(lo, hi int) int {
	med := lo + (hi-lo)/2
	if med <= 0 && lo/2 < med {
		med = lo / 2
	} else if med >= 0 && hi/2 > med {
		med = hi / 2
	}
	return med
}
