package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/daystram/arbiter/position"
)

// UnmarshalFEN loads fen into b. The has-moved flags are not part of FEN and
// are derived: kings and rooks are unmoved when a castling right still refers
// to them, pawns are unmoved on their starting row.
func UnmarshalFEN(fen string, b *Board) error {
	if b == nil {
		return fmt.Errorf("invalid board")
	}
	*b = Board{doubleStep: position.None}

	segments := strings.Split(fen, " ")
	if len(segments) != 6 {
		return fmt.Errorf("%w: incorrect number of segments", ErrInvalidFEN)
	}

	rows := strings.Split(segments[0], "/")
	if len(rows) != int(Height) {
		return fmt.Errorf("%w: invalid board configuration", ErrInvalidFEN)
	}
	kings := map[Side]int{}
	for y, row := range rows {
		x := int8(0)
		for _, cell := range row {
			if x >= Width {
				return fmt.Errorf("%w: too many cells", ErrInvalidFEN)
			}
			if '0' <= cell && cell <= '9' {
				skip := int8(cell - '0')
				if skip == 0 || x+skip > Width {
					return fmt.Errorf("%w: skip out of bounds", ErrInvalidFEN)
				}
				x += skip
				continue
			}
			s, p := pieceFromSymbol(cell)
			if p == PieceUnknown {
				return fmt.Errorf("%w: unknown symbol '%s'", ErrInvalidFEN, string(cell))
			}
			pos := position.NewPos(x, int8(y))
			moved := p == PieceKing || p == PieceRook || (p == PiecePawn && pos.Y != s.PawnRow())
			b.set(pos, NewCell(s, p, moved))
			if p == PieceKing {
				kings[s]++
			}
			x++
		}
		if x != Width {
			return fmt.Errorf("%w: missing cells", ErrInvalidFEN)
		}
	}
	if kings[SideWhite] != 1 || kings[SideBlack] != 1 {
		return fmt.Errorf("%w: king missing", ErrInvalidFEN)
	}

	switch segments[1] {
	case "w":
		b.turn = SideWhite
	case "b":
		b.turn = SideBlack
	default:
		return fmt.Errorf("%w: invalid turn", ErrInvalidFEN)
	}

	var castleRights CastleRights
	if len(segments[2]) > 4 || len(segments[2]) == 0 {
		return fmt.Errorf("%w: invalid castling rights", ErrInvalidFEN)
	}
crLoop:
	for i, e := range segments[2] {
		switch e {
		case 'K':
			castleRights.Set(CastleDirectionWhiteRight, true)
		case 'k':
			castleRights.Set(CastleDirectionBlackRight, true)
		case 'Q':
			castleRights.Set(CastleDirectionWhiteLeft, true)
		case 'q':
			castleRights.Set(CastleDirectionBlackLeft, true)
		default:
			if i == 0 && e == '-' && len(segments[2]) == 1 {
				break crLoop
			}
			return fmt.Errorf("%w: invalid castling rights", ErrInvalidFEN)
		}
	}
	for _, s := range []Side{SideWhite, SideBlack} {
		king := b.kingPos(s)
		for _, d := range castleDirections[s] {
			if !castleRights.IsAllowed(d) {
				continue
			}
			rookPos := position.NewPos(d.RookFile(), king.Y)
			if king.Y != s.HomeRow() || king.X != KingHomeFile || !b.At(rookPos).Is(s, PieceRook) {
				return fmt.Errorf("%w: castling rights without king and rook in place", ErrInvalidFEN)
			}
			b.set(king, NewCell(s, PieceKing, false))
			b.set(rookPos, NewCell(s, PieceRook, false))
		}
	}

	if segments[3] != "-" {
		pos, err := position.NewPosFromNotation(segments[3])
		if err != nil {
			return fmt.Errorf("%w: %v", fmt.Errorf("%w: invalid enpassant position", ErrInvalidFEN), err)
		}
		mover := b.turn.Opposite()
		marker := pos.Add(0, mover.Forward())
		if pos.Y != mover.PawnRow()+mover.Forward() || !b.At(marker).Is(mover, PiecePawn) {
			return fmt.Errorf("%w: invalid enpassant position", ErrInvalidFEN)
		}
		b.doubleStep = marker
	}

	halfMoveClock, err := strconv.ParseUint(segments[4], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: invalid half move clock", ErrInvalidFEN)
	}
	b.halfMoveClock = int(halfMoveClock)

	fullMoveClock, err := strconv.ParseUint(segments[5], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: invalid full move clock", ErrInvalidFEN)
	}
	b.fullMoveClock = int(fullMoveClock)

	return nil
}

func MarshalFEN(b *Board) string {
	builder := strings.Builder{}
	for y := int8(0); y < Height; y++ {
		var skip int
		for x := int8(0); x < Width; x++ {
			c := b.At(position.NewPos(x, y))
			if c.IsEmpty() {
				skip++
				continue
			}
			if skip != 0 {
				_, _ = builder.WriteString(strconv.Itoa(skip))
				skip = 0
			}
			_, _ = builder.WriteString(c.String())
		}
		if skip != 0 {
			_, _ = builder.WriteString(strconv.Itoa(skip))
		}
		if y < Height-1 {
			_, _ = builder.WriteRune('/')
		}
	}

	if b.turn == SideWhite {
		_, _ = builder.WriteString(" w ")
	} else {
		_, _ = builder.WriteString(" b ")
	}

	castleRights := b.CastleRights()
	if castleRights == 0 {
		_, _ = builder.WriteRune('-')
	} else {
		if castleRights.IsAllowed(CastleDirectionWhiteRight) {
			_, _ = builder.WriteRune('K')
		}
		if castleRights.IsAllowed(CastleDirectionWhiteLeft) {
			_, _ = builder.WriteRune('Q')
		}
		if castleRights.IsAllowed(CastleDirectionBlackRight) {
			_, _ = builder.WriteRune('k')
		}
		if castleRights.IsAllowed(CastleDirectionBlackLeft) {
			_, _ = builder.WriteRune('q')
		}
	}
	_, _ = builder.WriteRune(' ')

	if marker, ok := b.DoubleStep(); ok {
		mover := b.At(marker).Side()
		if mover == SideUnknown {
			mover = b.turn.Opposite()
		}
		_, _ = builder.WriteString(marker.Add(0, -mover.Forward()).Notation())
	} else {
		_, _ = builder.WriteRune('-')
	}

	_, _ = builder.WriteString(fmt.Sprintf(" %d %d", b.halfMoveClock, b.fullMoveClock))

	return builder.String()
}
