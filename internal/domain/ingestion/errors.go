package ingestion

import "errors"

// Domain-specific errors для ingestion domain
var (
	ErrDuplicateContent       = errors.New("file content already processed")
	ErrUnsupportedFormat      = errors.New("unsupported file format")
	ErrInvalidColumnSelection = errors.New("invalid column selection")
	ErrEmptyTable             = errors.New("table has no columns")
)
