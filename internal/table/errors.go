package table

import "errors"

// Engine errors.
var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownRow    = errors.New("unknown row")
)
