package board

import "github.com/daystram/arbiter/position"

type CastleDirection uint8

const (
	CastleDirectionUnknown CastleDirection = iota
	CastleDirectionWhiteRight
	CastleDirectionWhiteLeft
	CastleDirectionBlackRight
	CastleDirectionBlackLeft
)

var (
	castleDirections = map[Side][2]CastleDirection{
		SideWhite: {CastleDirectionWhiteRight, CastleDirectionWhiteLeft},
		SideBlack: {CastleDirectionBlackRight, CastleDirectionBlackLeft},
	}

	maskCastleRights = [5]CastleRights{
		0,
		0b1000, // CastleDirectionWhiteRight
		0b0100, // CastleDirectionWhiteLeft
		0b0010, // CastleDirectionBlackRight
		0b0001, // CastleDirectionBlackLeft
	}
)

func (d CastleDirection) String() string {
	switch d {
	case CastleDirectionWhiteRight:
		return "White 0-0"
	case CastleDirectionWhiteLeft:
		return "White 0-0-0"
	case CastleDirectionBlackRight:
		return "Black 0-0"
	case CastleDirectionBlackLeft:
		return "Black 0-0-0"
	default:
		return ""
	}
}

func (d CastleDirection) IsWhite() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionWhiteLeft
}

func (d CastleDirection) IsRight() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionBlackRight
}

func (d CastleDirection) Side() Side {
	if d == CastleDirectionUnknown {
		return SideUnknown
	}
	if d.IsWhite() {
		return SideWhite
	}
	return SideBlack
}

// KingFile is the column the king lands on.
func (d CastleDirection) KingFile() int8 {
	if d.IsRight() {
		return 6
	}
	return 2
}

// RookFile is the column the rook starts from.
func (d CastleDirection) RookFile() int8 {
	if d.IsRight() {
		return Width - 1
	}
	return 0
}

// castleRookFile returns the starting rook column for a king move of dx
// columns.
func castleRookFile(dx int8) int8 {
	if dx > 0 {
		return Width - 1
	}
	return 0
}

type CastleRights uint8

func (c *CastleRights) Set(d CastleDirection, allow bool) {
	if allow {
		*c |= maskCastleRights[d]
	} else {
		*c &^= maskCastleRights[d]
	}
}

func (c *CastleRights) IsAllowed(d CastleDirection) bool {
	return *c&maskCastleRights[d] != 0
}

// CastleRights derives the castling rights from the has-moved flags: a
// direction is kept while its king and rook are both in place and unmoved.
func (b *Board) CastleRights() CastleRights {
	var cr CastleRights
	for _, s := range []Side{SideWhite, SideBlack} {
		king := b.kingPos(s)
		if king.X != KingHomeFile || king.Y != s.HomeRow() || b.At(king).Moved() {
			continue
		}
		for _, d := range castleDirections[s] {
			rook := b.At(position.NewPos(d.RookFile(), king.Y))
			cr.Set(d, rook.Is(s, PieceRook) && !rook.Moved())
		}
	}
	return cr
}

// castleDestinations returns the king squares reachable by castling. Every
// square the king stands on, from its start to its destination inclusive,
// must be safe.
func (b *Board) castleDestinations(from position.Pos, king Cell) position.Set {
	s := king.Side()
	if !king.Is(s, PieceKing) || king.Moved() || from != position.NewPos(KingHomeFile, s.HomeRow()) || b.IsInCheck(s) {
		return 0
	}

	var dst position.Set
	for _, d := range castleDirections[s] {
		rook := b.At(position.NewPos(d.RookFile(), from.Y))
		if !rook.Is(s, PieceRook) || rook.Moved() {
			continue
		}
		if !b.isPathClear(from, d.RookFile()) {
			continue
		}
		if !b.isTransitSafe(from, d.KingFile()) {
			continue
		}
		dst = dst.Add(position.NewPos(d.KingFile(), from.Y))
	}
	return dst
}

// isPathClear checks the squares strictly between the king and the rook.
func (b *Board) isPathClear(king position.Pos, rookFile int8) bool {
	step := sign(rookFile - king.X)
	for x := king.X + step; x != rookFile; x += step {
		if !b.At(position.NewPos(x, king.Y)).IsEmpty() {
			return false
		}
	}
	return true
}

// isTransitSafe walks the king one column at a time towards kingFile and
// checks it is not attacked on any of the squares.
func (b *Board) isTransitSafe(king position.Pos, kingFile int8) bool {
	s := b.At(king).Side()
	step := sign(kingFile - king.X)
	for x := king.X; ; x += step {
		bb := b
		if x != king.X {
			bb = b.relocate(king, position.NewPos(x, king.Y))
		}
		if bb.IsInCheck(s) {
			return false
		}
		if x == kingFile {
			return true
		}
	}
}
