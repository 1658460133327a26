package board

type Piece uint8

const (
	PieceUnknown Piece = iota
	PiecePawn
	PieceBishop
	PieceKnight
	PieceRook
	PieceQueen
	PieceKing
)

// PawnPromoteCandidates represents the candidates for pawn promotion.
var PawnPromoteCandidates = []Piece{PieceQueen, PieceRook, PieceBishop, PieceKnight}

func (p Piece) String() string {
	return p.Name()
}

func (p Piece) Name() string {
	switch p {
	case PiecePawn:
		return "Pawn"
	case PieceBishop:
		return "Bishop"
	case PieceKnight:
		return "Knight"
	case PieceRook:
		return "Rook"
	case PieceQueen:
		return "Queen"
	case PieceKing:
		return "King"
	default:
		return ""
	}
}

func (p Piece) SymbolFEN(s Side) string {
	var sym rune
	switch p {
	case PiecePawn:
		sym = 'P'
	case PieceBishop:
		sym = 'B'
	case PieceKnight:
		sym = 'N'
	case PieceRook:
		sym = 'R'
	case PieceQueen:
		sym = 'Q'
	case PieceKing:
		sym = 'K'
	default:
		return ""
	}
	if s == SideBlack {
		sym |= 0x20 // lowercase is +32 uppercase
	}
	return string(sym)
}

func (p Piece) SymbolUnicode(s Side, invert bool) string {
	if invert {
		s = s.Opposite()
	}
	switch s {
	case SideWhite:
		switch p {
		case PiecePawn:
			return "♙"
		case PieceBishop:
			return "♗"
		case PieceKnight:
			return "♘"
		case PieceRook:
			return "♖"
		case PieceQueen:
			return "♕"
		case PieceKing:
			return "♔"
		default:
			return ""
		}
	case SideBlack:
		switch p {
		case PiecePawn:
			return "♟"
		case PieceBishop:
			return "♝"
		case PieceKnight:
			return "♞"
		case PieceRook:
			return "♜"
		case PieceQueen:
			return "♛"
		case PieceKing:
			return "♚"
		default:
			return ""
		}
	default:
		return ""
	}
}

func pieceFromSymbol(sym rune) (Side, Piece) {
	s := SideWhite
	if sym >= 'a' && sym <= 'z' {
		s = SideBlack
		sym &^= 0x20
	}
	switch sym {
	case 'P':
		return s, PiecePawn
	case 'B':
		return s, PieceBishop
	case 'N':
		return s, PieceKnight
	case 'R':
		return s, PieceRook
	case 'Q':
		return s, PieceQueen
	case 'K':
		return s, PieceKing
	default:
		return SideUnknown, PieceUnknown
	}
}

// Cell packs the content of one square: piece in the low bits, side in the
// next two and the has-moved flag in the top bit. The zero Cell is empty.
type Cell uint8

const (
	cellMaskPiece Cell = 0b0000_0111
	cellMaskSide  Cell = 0b0011_0000
	cellMaskMoved Cell = 0b1000_0000

	cellShiftSide = 4
)

func NewCell(s Side, p Piece, moved bool) Cell {
	c := Cell(s)<<cellShiftSide | Cell(p)
	if moved {
		c |= cellMaskMoved
	}
	return c
}

func (c Cell) Piece() Piece {
	return Piece(c & cellMaskPiece)
}

func (c Cell) Side() Side {
	return Side((c & cellMaskSide) >> cellShiftSide)
}

func (c Cell) Moved() bool {
	return c&cellMaskMoved != 0
}

func (c Cell) IsEmpty() bool {
	return c.Piece() == PieceUnknown
}

func (c Cell) Is(s Side, p Piece) bool {
	return c.Side() == s && c.Piece() == p
}

func (c Cell) withMoved() Cell {
	return c | cellMaskMoved
}

func (c Cell) String() string {
	return c.Piece().SymbolFEN(c.Side())
}
