package board

import (
	"fmt"
	"strings"

	"github.com/daystram/arbiter/position"
)

// Board is the complete position at one ply. A Board is never mutated once
// it has been returned: Apply and Finish produce new values, so a Board can
// be shared freely between goroutines.
type Board struct {
	// grid data
	cells [TotalCells]Cell

	// meta
	turn          Side
	doubleStep    position.Pos
	halfMoveClock int
	fullMoveClock int
	gameOver      bool
}

type boardConfig struct {
	fen string
}

type BoardOption func(*boardConfig)

func WithFEN(fen string) BoardOption {
	return func(cfg *boardConfig) {
		cfg.fen = fen
	}
}

func NewBoard(opts ...BoardOption) (*Board, error) {
	cfg := &boardConfig{
		fen: DefaultStartingPositionFEN,
	}
	for _, f := range opts {
		f(cfg)
	}

	b := &Board{}
	if err := UnmarshalFEN(cfg.fen, b); err != nil {
		return nil, err
	}
	return b, nil
}

// NewStartingBoard places the standard initial position without going
// through the FEN parser.
func NewStartingBoard() *Board {
	b := &Board{
		turn:          SideWhite,
		doubleStep:    position.None,
		fullMoveClock: 1,
	}
	for _, s := range []Side{SideWhite, SideBlack} {
		for x := int8(0); x < Width; x++ {
			b.set(position.NewPos(x, s.HomeRow()), NewCell(s, backRank[x], false))
			b.set(position.NewPos(x, s.PawnRow()), NewCell(s, PiecePawn, false))
		}
	}
	return b
}

func (b *Board) At(p position.Pos) Cell {
	if !p.InBounds() {
		return 0
	}
	return b.cells[p.Index()]
}

func (b *Board) set(p position.Pos, c Cell) {
	b.cells[p.Index()] = c
}

func (b *Board) Turn() Side {
	return b.turn
}

func (b *Board) HalfMoveClock() int {
	return b.halfMoveClock
}

func (b *Board) FullMoveClock() int {
	return b.fullMoveClock
}

// DoubleStep returns the square of the pawn that advanced two squares on the
// previous ply, if any.
func (b *Board) DoubleStep() (position.Pos, bool) {
	return b.doubleStep, b.doubleStep != position.None
}

func (b *Board) IsGameOver() bool {
	return b.gameOver
}

// Finish returns a copy of the board flagged as terminal.
func (b *Board) Finish() *Board {
	bb := *b
	bb.gameOver = true
	return &bb
}

// Occupied returns the squares holding a piece of side s.
func (b *Board) Occupied(s Side) position.Set {
	var occ position.Set
	for i, c := range b.cells {
		if !c.IsEmpty() && c.Side() == s {
			occ = occ.Add(position.NewPosFromIndex(i))
		}
	}
	return occ
}

func (b *Board) kingPos(s Side) position.Pos {
	for i, c := range b.cells {
		if c.Is(s, PieceKing) {
			return position.NewPosFromIndex(i)
		}
	}
	return position.None
}

// Legal returns the destinations of the piece on from that do not leave its
// own king in check.
func (b *Board) Legal(from position.Pos) (position.Set, error) {
	c := b.At(from)
	if c.IsEmpty() {
		return 0, fmt.Errorf("%w: %s", ErrPieceNotFound, from)
	}
	return b.legal(from, c), nil
}

func (b *Board) legal(from position.Pos, c Cell) position.Set {
	candidates := PseudoLegal(b, from)
	switch c.Piece() {
	case PiecePawn:
		candidates = candidates.Union(b.enPassantDestination(from, c))
	case PieceKing:
		candidates = candidates.Union(b.castleDestinations(from, c))
	}

	var dst position.Set
	for _, to := range candidates.Slice() {
		if !b.apply(NewMove(from, to)).IsInCheck(c.Side()) {
			dst = dst.Add(to)
		}
	}
	return dst
}

func (b *Board) enPassantDestination(from position.Pos, c Cell) position.Set {
	marker, ok := b.DoubleStep()
	if !ok || marker.Y != from.Y || abs(marker.X-from.X) != 1 {
		return 0
	}
	target := b.At(marker)
	if !target.Is(c.Side().Opposite(), PiecePawn) {
		return 0
	}
	return position.NewSet(marker.Add(0, -target.Side().Forward()))
}

// LegalMoves lists every legal move of the side to move. Moves reaching the
// last rank are expanded into one move per promotion candidate.
func (b *Board) LegalMoves() []Move {
	var mvs []Move
	s := b.turn
	for _, from := range b.Occupied(s).Slice() {
		c := b.At(from)
		for _, to := range b.legal(from, c).Slice() {
			if c.Piece() == PiecePawn && to.Y == s.PromotionRow() {
				for _, p := range PawnPromoteCandidates {
					mvs = append(mvs, Move{From: from, To: to, Promote: p})
				}
				continue
			}
			mvs = append(mvs, NewMove(from, to))
		}
	}
	return mvs
}

func (b *Board) HasLegalMoves(s Side) bool {
	for _, from := range b.Occupied(s).Slice() {
		if !b.legal(from, b.At(from)).IsEmpty() {
			return true
		}
	}
	return false
}

// IsInCheck reports whether the king of side s is attacked.
func (b *Board) IsInCheck(s Side) bool {
	king := b.kingPos(s)
	if king == position.None {
		panic(fmt.Errorf("%w: %s\n%s", ErrKingMissing, s, b.Dump()))
	}
	return b.isAttacked(king, s.Opposite())
}

func (b *Board) isAttacked(p position.Pos, by Side) bool {
	for _, from := range b.Occupied(by).Slice() {
		if PseudoLegal(b, from).Has(p) {
			return true
		}
	}
	return false
}

func (b *Board) IsInCheckmate(s Side) bool {
	return b.IsInCheck(s) && !b.HasLegalMoves(s)
}

func (b *Board) IsInStalemate(s Side) bool {
	return !b.IsInCheck(s) && !b.HasLegalMoves(s)
}

// State evaluates the board for the side to move.
func (b *Board) State() State {
	s := b.turn
	switch {
	case b.IsInCheckmate(s):
		if s == SideWhite {
			return StateCheckmateWhite
		}
		return StateCheckmateBlack
	case b.IsInStalemate(s):
		return StateStalemate
	// checkmate takes precedence over the 50 move rule
	case b.halfMoveClock > FiftyMoveLimit:
		return StateFiftyMoveViolated
	case b.IsInCheck(s):
		if s == SideWhite {
			return StateCheckWhite
		}
		return StateCheckBlack
	default:
		return StateRunning
	}
}

// Apply plays mv and returns the resulting board. The move is not checked
// for legality; use Legal for that.
func (b *Board) Apply(mv Move) (*Board, error) {
	if b.At(mv.From).IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrPieceNotFound, mv.From)
	}
	if !mv.To.InBounds() || mv.To == mv.From {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMove, mv)
	}
	return b.apply(mv), nil
}

func (b *Board) apply(mv Move) *Board {
	bb := *b
	c := bb.At(mv.From)
	s := c.Side()
	isCapture := !bb.At(mv.To).IsEmpty()
	placed := c
	dx, dy := mv.To.X-mv.From.X, mv.To.Y-mv.From.Y

	// pawn specials: promotion, double step marker and en passant capture
	if c.Piece() == PiecePawn {
		if mv.To.Y == s.PromotionRow() {
			placed = NewCell(s, mv.Promotion(), true)
		}
		if abs(dy) == 2 {
			bb.doubleStep = mv.To
		} else {
			bb.doubleStep = position.None
		}
		if dx != 0 && !isCapture {
			bb.set(position.NewPos(mv.To.X, mv.From.Y), 0)
		}
	} else {
		bb.doubleStep = position.None
	}

	// castling moves the rook along with the king
	if c.Piece() == PieceKing && abs(dx) == 2 {
		rookFrom := position.NewPos(castleRookFile(dx), mv.From.Y)
		rookTo := position.NewPos(mv.To.X-sign(dx), mv.From.Y)
		if rook := bb.At(rookFrom); !rook.IsEmpty() {
			bb.set(rookTo, rook.withMoved())
			bb.set(rookFrom, 0)
		}
	}

	// update half move clock
	if c.Piece() == PiecePawn || isCapture {
		bb.halfMoveClock = 0
	} else {
		bb.halfMoveClock++
	}

	bb.set(mv.To, placed.withMoved())
	bb.set(mv.From, 0)

	// update full move clock
	if s == SideBlack {
		bb.fullMoveClock++
	}
	bb.turn = s.Opposite()
	return &bb
}

// relocate moves a piece without any side effect or clock update.
func (b *Board) relocate(from, to position.Pos) *Board {
	bb := *b
	bb.set(to, bb.At(from))
	bb.set(from, 0)
	return &bb
}

func (b *Board) FEN() string {
	return MarshalFEN(b)
}

func (b *Board) String() string {
	return b.FEN()
}

func (b *Board) Dump() string {
	builder := strings.Builder{}
	for y := int8(0); y < Height; y++ {
		_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n")
		_, _ = builder.WriteString(fmt.Sprintf(" %d |", Height-y))
		for x := int8(0); x < Width; x++ {
			sym := b.At(position.NewPos(x, y)).String()
			if sym == "" {
				sym = " "
			}
			_, _ = builder.WriteString(fmt.Sprintf(" %s |", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n   ")
	for x := int8(0); x < Width; x++ {
		_, _ = builder.WriteString(fmt.Sprintf("  %s ", position.NewPos(x, 0).NotationComponentX()))
	}
	return builder.String()
}

func (b *Board) DebugString() string {
	ds := "-"
	if p, ok := b.DoubleStep(); ok {
		ds = p.Notation()
	}
	return fmt.Sprintf("turn: %s\ndstp: %s\nhalf: %4d\nfull: %4d\nover: %v", b.turn, ds, b.halfMoveClock, b.fullMoveClock, b.gameOver)
}
