package block

import "errors"

// Error values for consistent error handling by callers.
var (
	ErrInvalidDefinition = errors.New("invalid block definition")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
