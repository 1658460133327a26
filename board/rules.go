package board

import "github.com/daystram/arbiter/position"

// PseudoLegal returns the destinations of the piece on from following its
// movement geometry only. The mover's own king may be left in check. En
// passant and castling depend on more than the placement and are added by
// Board.Legal.
func PseudoLegal(b *Board, from position.Pos) position.Set {
	c := b.At(from)
	switch c.Piece() {
	case PiecePawn:
		return pawnDestinations(b, from, c.Side(), c.Moved())
	case PieceBishop:
		return walk(b, from, c.Side(), deltaDiagonals, true)
	case PieceKnight:
		return walk(b, from, c.Side(), deltaKnight, false)
	case PieceRook:
		return walk(b, from, c.Side(), deltaLaterals, true)
	case PieceQueen:
		return walk(b, from, c.Side(), deltaAll, true)
	case PieceKing:
		return walk(b, from, c.Side(), deltaAll, false)
	default:
		return 0
	}
}

// walk steps along each delta, once for stepping pieces or until blocked for
// sliding pieces. A blocker is included only when it belongs to the opponent.
func walk(b *Board, from position.Pos, s Side, ds []delta, slide bool) position.Set {
	var dst position.Set
	for _, d := range ds {
		for to := from.Add(d.dx, d.dy); to.InBounds(); to = to.Add(d.dx, d.dy) {
			if c := b.At(to); !c.IsEmpty() {
				if c.Side() != s {
					dst = dst.Add(to)
				}
				break
			}
			dst = dst.Add(to)
			if !slide {
				break
			}
		}
	}
	return dst
}

func pawnDestinations(b *Board, from position.Pos, s Side, moved bool) position.Set {
	var dst position.Set
	fwd := s.Forward()

	if one := from.Add(0, fwd); one.InBounds() && b.At(one).IsEmpty() {
		dst = dst.Add(one)
		if two := from.Add(0, 2*fwd); !moved && two.InBounds() && b.At(two).IsEmpty() {
			dst = dst.Add(two)
		}
	}

	for _, dx := range []int8{-1, 1} {
		to := from.Add(dx, fwd)
		if c := b.At(to); !c.IsEmpty() && c.Side() != s {
			dst = dst.Add(to)
		}
	}
	return dst
}
