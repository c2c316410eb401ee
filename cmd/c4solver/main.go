// Command c4solver is a console driver for the Connect Four strong
// solver: play out a position, solve it exactly, analyze every column,
// or run solver benchmarks.
package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/seekerror/build"
	"github.com/seekerror/c4solver/pkg/book"
	"github.com/seekerror/c4solver/pkg/console"
	"github.com/seekerror/c4solver/pkg/solver"
	"github.com/seekerror/logw"
	"os"
)

var version = build.NewVersion(0, 1, 0)

var (
	weak     = flag.Bool("weak", false, "Only determine win/draw/loss, not the exact score")
	threads  = flag.Int("threads", 1, "Number of worker goroutines the solver spreads search over")
	tableLog = flag.Int("table_log_size", 0, "Transposition table size as next_prime(2^n) entries (0 = default)")
	bookPath = flag.String("book", defaultBookPath, "Path to an opening book file to load at startup, if present")
)

// defaultBookPath is the conventional opening book location: loading it
// at startup is best-effort -- its absence is not an error unless the
// caller pointed -book at some other, explicitly required, path.
const defaultBookPath = "./opening_book.book"

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: c4solver [options]

c4solver is a Connect Four strong solver.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	var opts []solver.Option
	if *tableLog > 0 {
		opts = append(opts, solver.WithTableLogSize(*tableLog))
	}
	if *threads > 1 {
		opts = append(opts, solver.WithThreads(*threads))
	}

	s := solver.New(ctx, opts...)

	if *bookPath != "" {
		b, err := book.Load(*bookPath)
		switch {
		case err == nil:
			s.SetBook(b)
			logw.Infof(ctx, "Loaded opening book %v: %v entries", *bookPath, b.NumEntries())
		case os.IsNotExist(err) && *bookPath == defaultBookPath:
			logw.Infof(ctx, "No opening book at default path %v, starting without one", *bookPath)
		default:
			logw.Exitf(ctx, "Failed to load opening book %v: %v", *bookPath, err)
		}
	}

	logw.Infof(ctx, "c4solver %v starting, weak=%v threads=%v", version, *weak, *threads)

	in := console.ReadStdinLines(ctx)
	driver, out := console.NewDriver(ctx, s, *weak, in)
	go console.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}
