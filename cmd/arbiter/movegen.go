package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/daystram/arbiter/board"
)

func movegen(fen string, ascii bool, out io.Writer) error {
	b, err := board.NewBoard(board.WithFEN(fen))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, b.Summary())
	_, _ = fmt.Fprintln(out, b.Dump())
	_, _ = fmt.Fprintln(out, b.Draw(board.DrawOptions{ASCII: ascii}))
	_, _ = fmt.Fprintln(out, b.State())
	dumpMoves(b, out)
	return nil
}

func dumpMoves(b *board.Board, out io.Writer) {
	mvs := b.LegalMoves()
	for i, mv := range mvs {
		c := b.At(mv.From)
		target := b.At(mv.To)
		dx := mv.To.X - mv.From.X
		enp := c.Piece() == board.PiecePawn && dx != 0 && target.IsEmpty()
		cas := c.Piece() == board.PieceKing && (dx == 2 || dx == -2)
		pro := c.Piece() == board.PiecePawn && mv.To.Y == c.Side().PromotionRow()
		_, _ = fmt.Fprintf(out, "option %*d: [%s] %s %s %s => %s (cap=%v) (enp=%v) (cas=%v) (pro=%v)\n",
			len(strconv.Itoa(len(mvs))), i+1, mv.UCI(), c.Side(), c.Piece(), mv.From.Notation(), mv.To.Notation(),
			!target.IsEmpty() || enp, enp, cas, pro)
	}
}
