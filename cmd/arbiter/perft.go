package main

import (
	"fmt"
	"io"

	"github.com/daystram/arbiter/bench"
)

func perft(depth int, fen string, parallel bool, out io.Writer) error {
	mode := "dfs"
	if parallel {
		mode = "parallel dfs"
	}
	_, _ = fmt.Fprintf(out, "============ perft(%d): %s\n", depth, mode)

	lines := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for l := range lines {
			_, _ = fmt.Fprintln(out, l)
		}
	}()

	_, err := bench.Perft(depth, fen, parallel, true, lines)
	close(lines)
	<-done
	return err
}
