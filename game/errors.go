package game

import "errors"

var (
	ErrSourceNotArmed = errors.New("move source not armed")
	ErrIllegalMove    = errors.New("illegal move")
	ErrEngineStartup  = errors.New("engine startup failed")
)
