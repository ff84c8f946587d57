package learning

import "errors"

// Engine errors.
var (
	ErrNoActions        = errors.New("no actions provided")
	ErrEmptySequence    = errors.New("sequence has no actions")
	ErrUnknownPattern   = errors.New("pattern not found")
	ErrInvalidThreshold = errors.New("threshold outside configured bounds")
)
