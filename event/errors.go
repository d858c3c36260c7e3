package event

import "errors"

var (
	ErrNilHandler    = errors.New("nil event handler")
	ErrNoRegistry    = errors.New("no event registry registered in this context")
	ErrHandlerPanic  = errors.New("event handler panicked")
	ErrUnknownMode   = errors.New("unknown listen mode")
	ErrUnknownPolicy = errors.New("unknown delivery policy")
)
