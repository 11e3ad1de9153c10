package state

import "errors"

// State transition errors.
var (
	ErrResizeActive = errors.New("a column resize is already in progress")
	ErrNotResizable = errors.New("column is not resizable")
	ErrNoResize     = errors.New("no column resize in progress")
	ErrNotSortable  = errors.New("column is not sortable")
	ErrInvalidOrder = errors.New("invalid sort order")
)
