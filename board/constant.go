package board

import "github.com/daystram/arbiter/position"

const (
	Width      = position.MaxComponentScalar
	Height     = position.MaxComponentScalar
	TotalCells = int(Width) * int(Height)

	// FiftyMoveLimit is the half-move clock value the clock has to exceed
	// for the game to be drawn.
	FiftyMoveLimit = 100

	// KingHomeFile is the column both kings start on, the only one they can
	// castle from.
	KingHomeFile int8 = 4

	DefaultStartingPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

type delta struct {
	dx, dy int8
}

var (
	deltaLaterals = []delta{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	}
	deltaDiagonals = []delta{
		{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
	}
	deltaAll = append(append([]delta{}, deltaLaterals...), deltaDiagonals...)

	deltaKnight = []delta{
		{-1, -2}, {1, -2}, {2, -1}, {2, 1},
		{-1, 2}, {1, 2}, {-2, -1}, {-2, 1},
	}

	backRank = [Width]Piece{
		PieceRook, PieceKnight, PieceBishop, PieceQueen,
		PieceKing, PieceBishop, PieceKnight, PieceRook,
	}
)
