// Package console implements a line-oriented debugging driver over a
// Solver: commands arrive on an input channel, responses go out on an
// output channel, and the caller bridges both to wherever it likes.
package console

import (
	"context"
	"fmt"
	"github.com/seekerror/c4solver/pkg/board"
	"github.com/seekerror/c4solver/pkg/solver"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"strconv"
	"strings"
)

// commands lists every recognized command, printed verbatim by help.
var commands = []string{
	"moves/play/move <cols...>",
	"position [<cols...>]",
	"solve",
	"analyze",
	"toggle-weak",
	"clear-tt",
	"bench <file|all> [maxLines]",
	"commands/help",
	"quit/exit",
}

// Driver processes commands read from an input channel and writes
// responses to an output channel, driving a Solver against one position
// held across commands.
type Driver struct {
	iox.AsyncCloser

	s   *solver.Solver
	pos board.Position

	weak bool

	out chan<- string
}

// NewDriver starts a Driver reading from in, returning it along with its
// output channel. weak is the initial weak-solve setting, toggled by the
// toggle-weak command.
func NewDriver(ctx context.Context, s *solver.Solver, weak bool, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		s:           s,
		weak:        weak,
		out:         out,
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console driver initialized, weak=%v", d.weak)
	d.out <- "Connect Four solver. Type 'help' for a list of commands."
	d.printPosition()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			fields := strings.Fields(line)
			if len(fields) == 0 {
				break
			}
			cmd, args := strings.ToLower(fields[0]), fields[1:]

			switch cmd {
			case "moves", "play", "move":
				d.handleMoves(args)
				d.printPosition()

			case "position":
				d.pos = board.New()
				d.handleMoves(args)
				d.printPosition()

			case "solve":
				d.handleSolve(ctx)

			case "analyze":
				d.handleAnalyze(ctx)

			case "toggle-weak":
				d.weak = !d.weak
				d.out <- fmt.Sprintf("weak set to %v", d.weak)

			case "clear-tt":
				d.s.ResetTranspositionTable()
				d.out <- "cleared transposition table"

			case "bench":
				d.handleBench(ctx, args)

			case "commands", "help":
				d.out <- "Valid commands: " + strings.Join(commands, ", ")

			case "quit", "exit":
				return

			default:
				d.out <- fmt.Sprintf("unknown command %q; type 'help' for the list", cmd)
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) handleMoves(args []string) {
	cols := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			d.out <- fmt.Sprintf("moves should be numbers, got: %v", a)
			return
		}
		cols[i] = n
	}
	if err := d.pos.PlaySequence(cols); err != nil {
		d.out <- err.Error()
		return
	}
	d.out <- fmt.Sprintf("played columns: %v", cols)
}

func (d *Driver) handleSolve(ctx context.Context) {
	d.s.ResetNodeCount()
	score := d.s.Solve(d.pos, d.weak)
	d.out <- fmt.Sprintf("score is %d%s", score, d.explainScore(score))
	d.out <- fmt.Sprintf("nodes searched: %d", d.s.NodeCount())
	logw.Infof(ctx, "Solved %v: score=%v nodes=%v", d.pos, score, d.s.NodeCount())
}

func (d *Driver) handleAnalyze(ctx context.Context) {
	d.s.ResetNodeCount()
	scores := d.s.Analyze(d.pos, d.weak)

	best := solver.InvalidMove
	for _, sc := range scores {
		if sc > best {
			best = sc
		}
	}

	d.out <- fmt.Sprintf("scores for the playable columns: %v", scores)
	d.out <- fmt.Sprintf("best score is %d%s", best, d.explainScore(best))
	d.out <- fmt.Sprintf("nodes searched: %d", d.s.NodeCount())
	logw.Infof(ctx, "Analyzed %v: scores=%v nodes=%v", d.pos, scores, d.s.NodeCount())
}

func (d *Driver) explainScore(score int) string {
	us, them := d.pos.CurrentPlayer()
	var sb strings.Builder
	switch {
	case score > 0:
		fmt.Fprintf(&sb, ", which means '%s' can win", us)
	case score < 0:
		fmt.Fprintf(&sb, ", which means '%s' can win", them)
	default:
		sb.WriteString(", which means it's a draw")
	}
	if !d.weak && score != 0 {
		fmt.Fprintf(&sb, " in %d move(s)", solver.ScoreToMovesToWin(d.pos, score))
	}
	return sb.String()
}

func (d *Driver) printPosition() {
	d.out <- ""
	d.out <- "current position:"
	d.out <- d.pos.String()
}
