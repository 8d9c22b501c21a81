package booklet

import "errors"

// Sentinel errors for configuration and imposition.
var (
	ErrInvalidSignature     = errors.New("invalid signature length")
	ErrInvalidMode          = errors.New("invalid sequencing mode")
	ErrInvalidPadding       = errors.New("invalid padding policy")
	ErrInvalidScaleMode     = errors.New("invalid scale mode")
	ErrInvalidGeometry      = errors.New("invalid placement geometry")
	ErrInvalidBookletLength = errors.New("booklet length must be a positive multiple of 4")

	// Document service errors.
	ErrProtectedSource = errors.New("source document is password protected")
	ErrOpenSource      = errors.New("failed to open source document")
	ErrPageOutOfRange  = errors.New("page index out of range")
	ErrPlacement       = errors.New("page placement failed")
	ErrCreatePage      = errors.New("failed to create output page")
	ErrWriteOutput     = errors.New("failed to write output document")

	// HTML conversion errors.
	ErrEmptyInput     = errors.New("input content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPoolClosed     = errors.New("converter pool is closed")
)
