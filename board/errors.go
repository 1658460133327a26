package board

import "errors"

var (
	ErrInvalidFEN       = errors.New("invalid fen")
	ErrInvalidMove      = errors.New("invalid move")
	ErrInvalidPromotion = errors.New("invalid promotion")
	ErrPieceNotFound    = errors.New("piece not found")

	// ErrKingMissing is raised as a panic: a board without both kings cannot
	// be produced through NewBoard and Apply.
	ErrKingMissing = errors.New("king missing")
)
