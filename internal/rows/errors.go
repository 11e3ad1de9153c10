package rows

import "errors"

// Flattening errors.
var (
	ErrDuplicateRowKey = errors.New("duplicate row key")
	ErrEmptyRowKey     = errors.New("row key cannot be empty")
	ErrNilKeyFunc      = errors.New("row key accessor is nil")
	ErrStale           = errors.New("flatten result superseded by a newer request")
)
