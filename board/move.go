package board

import (
	"fmt"

	"github.com/daystram/arbiter/position"
)

// Move is a coordinate pair move. Promote selects the piece a pawn turns
// into on the last rank; PieceUnknown means none was given and a queen is
// used.
type Move struct {
	From, To position.Pos
	Promote  Piece
}

func NewMove(from, to position.Pos) Move {
	return Move{From: from, To: to}
}

// ParseMove decodes long algebraic notation as used by UCI, e.g. "e2e4" or
// "e7e8q".
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := position.NewPosFromNotation(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}
	to, err := position.NewPosFromNotation(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}

	mv := NewMove(from, to)
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			mv.Promote = PieceQueen
		case 'r':
			mv.Promote = PieceRook
		case 'b':
			mv.Promote = PieceBishop
		case 'n':
			mv.Promote = PieceKnight
		default:
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, s)
		}
	}
	return mv, nil
}

// Promotion returns the piece a promoting pawn becomes.
func (m Move) Promotion() Piece {
	switch m.Promote {
	case PieceQueen, PieceRook, PieceBishop, PieceKnight:
		return m.Promote
	default:
		return PieceQueen
	}
}

func (m Move) UCI() string {
	return m.From.Notation() + m.To.Notation() + m.Promote.SymbolFEN(SideBlack)
}

func (m Move) String() string {
	return m.UCI()
}
