package uci

import "errors"

var (
	ErrStartup          = errors.New("engine startup failed")
	ErrHandshake        = errors.New("engine did not respond to uci initialisation")
	ErrEngineNotFound   = errors.New("engine not found")
	ErrPermissionDenied = errors.New("permission denied for executing engine")
	ErrEngineExited     = errors.New("engine exited")
	ErrNotReady         = errors.New("engine not ready")
	ErrMalformedReply   = errors.New("malformed engine reply")
)
