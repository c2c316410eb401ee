package console_test

import (
	"context"
	"github.com/seekerror/c4solver/pkg/console"
	"github.com/seekerror/c4solver/pkg/solver"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func drain(t *testing.T, out <-chan string, n int) []string {
	t.Helper()
	var lines []string
	for i := 0; i < n; i++ {
		select {
		case line, ok := <-out:
			if !ok {
				return lines
			}
			lines = append(lines, line)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for output line %d", i)
		}
	}
	return lines
}

func TestConsolePlaySolveQuit(t *testing.T) {
	ctx := context.Background()
	s := solver.New(ctx, solver.WithTableLogSize(12))

	in := make(chan string, 10)
	driver, out := console.NewDriver(ctx, s, true, in)

	drain(t, out, 4) // banner + blank + "current position:" + board

	in <- "play 4 4 5 5"
	drain(t, out, 4) // confirmation + blank + "current position:" + board

	in <- "solve"
	lines := drain(t, out, 2)
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "score is")

	in <- "quit"
	close(in)

	select {
	case <-driver.Closed():
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not close after quit")
	}
}

func TestConsoleUnknownCommand(t *testing.T) {
	ctx := context.Background()
	s := solver.New(ctx, solver.WithTableLogSize(12))

	in := make(chan string, 10)
	driver, out := console.NewDriver(ctx, s, true, in)
	drain(t, out, 4)

	in <- "frobnicate"
	lines := drain(t, out, 1)
	require.Contains(t, lines[0], "unknown command")

	close(in)
	<-driver.Closed()
}
