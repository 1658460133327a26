package position

import (
	"errors"
)

const (
	// MaxComponentScalar is the maximum component scalar the position system supports.
	MaxComponentScalar int8 = 8
)

var (
	// ErrInvalidNotation represents an invalid notation error.
	ErrInvalidNotation = errors.New("invalid notation")

	// None is the sentinel for an absent square.
	None = Pos{X: -1, Y: -1}
)

// Pos is a board square. X is the column (file a = 0), Y is the row counted
// from the top of the board, so row 0 is rank 8.
type Pos struct {
	X, Y int8
}

func NewPos(x, y int8) Pos {
	return Pos{X: x, Y: y}
}

func NewPosFromNotation(n string) (Pos, error) {
	if len(n) != 2 {
		return None, ErrInvalidNotation
	}
	x, err := notationToX(n[0])
	if err != nil {
		return None, err
	}
	y, err := notationToY(n[1])
	if err != nil {
		return None, err
	}
	return Pos{X: x, Y: y}, nil
}

// NewPosFromIndex is the inverse of Index.
func NewPosFromIndex(i int) Pos {
	return Pos{X: int8(i) % MaxComponentScalar, Y: int8(i) / MaxComponentScalar}
}

func (p Pos) String() string {
	return p.Notation()
}

func (p Pos) Notation() string {
	if !p.InBounds() {
		return ""
	}
	return p.NotationComponentX() + p.NotationComponentY()
}

func (p Pos) NotationComponentX() string {
	if p.X < 0 || MaxComponentScalar <= p.X {
		return ""
	}
	return string(rune('a' + p.X))
}

func (p Pos) NotationComponentY() string {
	if p.Y < 0 || MaxComponentScalar <= p.Y {
		return ""
	}
	return string(rune('0' + MaxComponentScalar - p.Y))
}

func (p Pos) InBounds() bool {
	return 0 <= p.X && p.X < MaxComponentScalar && 0 <= p.Y && p.Y < MaxComponentScalar
}

func (p Pos) Add(dx, dy int8) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Index returns the row-major index of the square, a8 = 0 and h1 = 63.
func (p Pos) Index() int {
	return int(p.Y)*int(MaxComponentScalar) + int(p.X)
}

func notationToX(x byte) (int8, error) {
	pX := int8(x) - 'a'
	if pX < 0 || MaxComponentScalar <= pX {
		return 0, ErrInvalidNotation
	}
	return pX, nil
}

func notationToY(y byte) (int8, error) {
	rank := int8(y) - '0'
	if rank < 1 || MaxComponentScalar < rank {
		return 0, ErrInvalidNotation
	}
	return MaxComponentScalar - rank, nil
}
