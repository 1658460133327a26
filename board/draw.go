package board

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/daystram/arbiter/position"
)

var colorLabel = color.New(color.Bold)

type DrawOptions struct {
	// ASCII draws pieces with their FEN letters instead of unicode glyphs.
	ASCII bool

	// Highlight marks squares, e.g. the legal destinations of Selected.
	Highlight position.Set
	Selected  position.Set
}

// Draw renders the board for a terminal, rank 8 on top.
func (b *Board) Draw(opts DrawOptions) string {
	builder := strings.Builder{}
	for y := int8(0); y < Height; y++ {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %d ", Height-y))
		for x := int8(0); x < Width; x++ {
			p := position.NewPos(x, y)
			c := b.At(p)

			sym := " "
			if !c.IsEmpty() {
				if opts.ASCII {
					sym = c.String()
				} else {
					sym = c.Piece().SymbolUnicode(c.Side(), false)
				}
			}

			attrs := []color.Attribute{color.FgBlack}
			switch {
			case opts.Selected.Has(p):
				attrs = append(attrs, color.BgHiBlue)
			case opts.Highlight.Has(p):
				attrs = append(attrs, color.BgCyan)
			case (x+y)%2 == 0:
				attrs = append(attrs, color.BgHiWhite)
			default:
				attrs = append(attrs, color.BgGreen)
			}
			if opts.ASCII && c.Side() == SideWhite {
				attrs = append(attrs, color.Bold)
			}
			_, _ = builder.WriteString(color.New(attrs...).Sprintf(" %s ", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   ")
	for x := int8(0); x < Width; x++ {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %s ", position.NewPos(x, 0).NotationComponentX()))
	}
	return builder.String()
}

func (b *Board) Summary() string {
	return fmt.Sprintf("%s to move, half-move clock %d, move %d", b.turn, b.halfMoveClock, b.fullMoveClock)
}
