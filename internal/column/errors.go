package column

import "errors"

// Configuration errors returned by Normalize.
var (
	ErrDuplicateKey      = errors.New("duplicate column key")
	ErrEmptyKey          = errors.New("column key cannot be empty")
	ErrAmbiguousAccessor = errors.New("column declares both dataKey and dataGetter")
	ErrNegativeWidth     = errors.New("column width must be non-negative")
	ErrInvalidBounds     = errors.New("column minWidth exceeds maxWidth")
)
