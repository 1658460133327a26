package bench

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daystram/arbiter/board"
)

// Result holds the perft counters. Move flags are counted on the last ply
// only, following the usual perft tables.
type Result struct {
	Nodes      uint64
	Captures   uint64
	EnPassants uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
}

func Perft(depth int, fen string, parallel, verbose bool, out chan string) (Result, error) {
	var r Result
	b, err := board.NewBoard(
		board.WithFEN(fen),
	)
	if err != nil {
		return r, err
	}

	var run perftFunc
	if parallel {
		run = runPerftParallel
	} else {
		run = runPerft
	}

	start := time.Now()
	run(b, depth, true, verbose, out, &r)
	end := time.Now()

	if out != nil {
		out <- message.NewPrinter(language.English).
			Sprintf("d=%d nodes=%d rate=%dn/s cap=%d enp=%d cas=%d pro=%d chk=%d (%.3fs elapsed)",
				depth, r.Nodes, int(float64(r.Nodes)/end.Sub(start).Seconds()), r.Captures, r.EnPassants, r.Castles, r.Promotions, r.Checks, end.Sub(start).Seconds())
	}

	return r, nil
}

type perftFunc func(b *board.Board, d int, root, verbose bool, out chan string, r *Result) uint64

func runPerft(b *board.Board, d int, root, verbose bool, out chan string, r *Result) uint64 {
	if d == 0 {
		r.Nodes++
		return 1
	}

	var sum uint64
	for _, mv := range b.LegalMoves() {
		bb, err := b.Apply(mv)
		if err != nil {
			continue
		}
		var child uint64
		if d == 1 {
			child = 1
			f := classify(b, mv, bb)
			r.Nodes++
			r.Captures += f.capture
			r.EnPassants += f.enPassant
			r.Castles += f.castle
			r.Promotions += f.promotion
			r.Checks += f.check
		} else {
			child = runPerft(bb, d-1, false, verbose, out, r)
		}
		if verbose && root && out != nil {
			out <- fmt.Sprintf("%s: %d", mv.UCI(), child)
		}
		sum += child
	}
	return sum
}

func runPerftParallel(b *board.Board, d int, root, verbose bool, out chan string, r *Result) uint64 {
	if d == 0 {
		atomic.AddUint64(&r.Nodes, 1)
		return 1
	}

	var sum uint64
	var wg sync.WaitGroup
	for _, mv := range b.LegalMoves() {
		mv := mv
		wg.Add(1)
		go func() {
			defer wg.Done()
			bb, err := b.Apply(mv)
			if err != nil {
				return
			}
			var child uint64
			if d == 1 {
				child = 1
				f := classify(b, mv, bb)
				atomic.AddUint64(&r.Nodes, 1)
				atomic.AddUint64(&r.Captures, f.capture)
				atomic.AddUint64(&r.EnPassants, f.enPassant)
				atomic.AddUint64(&r.Castles, f.castle)
				atomic.AddUint64(&r.Promotions, f.promotion)
				atomic.AddUint64(&r.Checks, f.check)
			} else {
				child = runPerftParallel(bb, d-1, false, verbose, out, r)
			}
			if verbose && root && out != nil {
				out <- fmt.Sprintf("%s: %d", mv.UCI(), child)
			}
			atomic.AddUint64(&sum, child)
		}()
	}
	wg.Wait()
	return sum
}

type flags struct {
	capture, enPassant, castle, promotion, check uint64
}

// classify reports the kind of mv played on b, with bb the resulting board.
func classify(b *board.Board, mv board.Move, bb *board.Board) flags {
	var f flags
	c := b.At(mv.From)
	target := b.At(mv.To)
	dx := mv.To.X - mv.From.X

	switch c.Piece() {
	case board.PiecePawn:
		if dx != 0 && target.IsEmpty() {
			f.enPassant = 1
			f.capture = 1
		}
		if mv.To.Y == c.Side().PromotionRow() {
			f.promotion = 1
		}
	case board.PieceKing:
		if dx == 2 || dx == -2 {
			f.castle = 1
		}
	}
	if !target.IsEmpty() {
		f.capture = 1
	}
	if bb.IsInCheck(bb.Turn()) {
		f.check = 1
	}
	return f
}
