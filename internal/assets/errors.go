package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested embedded style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidStyleName indicates the name contains path separators, dots
	// or is empty.
	ErrInvalidStyleName = errors.New("invalid style name")

	// ErrStyleRead indicates an I/O error while reading a CSS file.
	ErrStyleRead = errors.New("failed to read style")
)
