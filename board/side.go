package board

type Side uint8

const (
	SideUnknown Side = iota
	SideWhite
	SideBlack
)

func (s Side) String() string {
	switch s {
	case SideWhite:
		return "White"
	case SideBlack:
		return "Black"
	default:
		return ""
	}
}

func (s Side) Opposite() Side {
	switch s {
	case SideWhite:
		return SideBlack
	case SideBlack:
		return SideWhite
	default:
		return SideUnknown
	}
}

// Forward is the row delta of a pawn advance. White moves up the board,
// towards row 0.
func (s Side) Forward() int8 {
	if s == SideWhite {
		return -1
	}
	return 1
}

// HomeRow is the row holding the side's king and rooks at the start.
func (s Side) HomeRow() int8 {
	if s == SideWhite {
		return Height - 1
	}
	return 0
}

// PawnRow is the row the side's pawns start on.
func (s Side) PawnRow() int8 {
	return s.HomeRow() + s.Forward()
}

// PromotionRow is the last row in the side's forward direction.
func (s Side) PromotionRow() int8 {
	return s.Opposite().HomeRow()
}
