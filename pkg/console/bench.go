package console

import (
	"bufio"
	"context"
	"fmt"
	"github.com/seekerror/c4solver/pkg/board"
	"github.com/seekerror/logw"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// handleBench runs the bench command: "bench <file> [maxLines]" solves
// every position in a benchmark file, or "bench all [maxLines]" does the
// same for every file under ./benchmark_files. Each benchmark line is
// "<position-digits> <expected-score>"; a mismatch is reported but does
// not stop the run.
func (d *Driver) handleBench(ctx context.Context, args []string) {
	if len(args) == 0 {
		d.out <- "usage: bench <file|all> [maxLines]"
		return
	}

	maxLines := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			d.out <- fmt.Sprintf("invalid max lines: %v", args[1])
			return
		}
		maxLines = n
	}

	if args[0] == "all" {
		entries, err := os.ReadDir("benchmark_files")
		if err != nil {
			d.out <- fmt.Sprintf("could not read benchmark_files: %v", err)
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			d.benchFile(ctx, filepath.Join("benchmark_files", e.Name()), maxLines)
		}
		return
	}
	d.benchFile(ctx, args[0], maxLines)
}

func (d *Driver) benchFile(ctx context.Context, path string, maxLines int) {
	d.out <- fmt.Sprintf("starting benchmark: %v", path)

	f, err := os.Open(path)
	if err != nil {
		d.out <- fmt.Sprintf("could not open %v: %v", path, err)
		return
	}
	defer f.Close()

	var times []float64
	var nodes []float64

	scanner := bufio.NewScanner(f)
	for i := 0; scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		pos, err := board.FromString(parts[0])
		if err != nil {
			d.out <- fmt.Sprintf("couldn't parse line %d: %v", i, err)
			continue
		}

		d.s.ResetNodeCount()
		start := time.Now()
		score := convScore(d.s.Solve(pos, d.weak), d.weak)
		elapsed := time.Since(start)

		times = append(times, elapsed.Seconds())
		nodes = append(nodes, float64(d.s.NodeCount()))

		if len(parts) > 1 {
			expected, err := strconv.Atoi(parts[1])
			if err == nil {
				if want := convScore(expected, d.weak); score != want {
					msg := fmt.Sprintf("expected score %v, got %v in pos %v on line %d", want, score, parts[0], i)
					logw.Errorf(ctx, "%v: %v", path, msg)
					d.out <- msg
				}
			}
		}

		if maxLines > 0 && i+1 == maxLines {
			break
		}
	}

	d.out <- "finished benchmark"
	d.out <- fmt.Sprintf("average time: %v", time.Duration(average(times)*float64(time.Second)))
	d.out <- fmt.Sprintf("average number of nodes: %.1f", average(nodes))
}

func convScore(score int, weak bool) int {
	if !weak {
		return score
	}
	switch {
	case score > 0:
		return 1
	case score < 0:
		return -1
	default:
		return 0
	}
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
