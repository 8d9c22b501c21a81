package main

import (
	"errors"
	"os"

	"github.com/alnah/go-booklet"
	"github.com/alnah/go-booklet/internal/assets"
	"github.com/alnah/go-booklet/internal/config"
)

// Exit codes for the booklet CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error, including strict placement failures
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Missing, unreadable or protected input, write failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the exit code for err.
// It uses errors.Is, so callers must wrap with fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, booklet.ErrBrowserConnect) ||
		errors.Is(err, booklet.ErrPageCreate) ||
		errors.Is(err, booklet.ErrPageLoad) ||
		errors.Is(err, booklet.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, booklet.ErrProtectedSource) ||
		errors.Is(err, booklet.ErrOpenSource) ||
		errors.Is(err, booklet.ErrWriteOutput) ||
		errors.Is(err, assets.ErrStyleRead) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrCreateOutputDir) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrTooManyInputs) ||
		errors.Is(err, ErrModeRequired) ||
		errors.Is(err, ErrModeConflict) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, booklet.ErrInvalidSignature) ||
		errors.Is(err, booklet.ErrInvalidMode) ||
		errors.Is(err, booklet.ErrInvalidPadding) ||
		errors.Is(err, booklet.ErrInvalidScaleMode) ||
		errors.Is(err, booklet.ErrInvalidGeometry) ||
		errors.Is(err, booklet.ErrEmptyInput) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidStyleName) {
		return ExitUsage
	}

	return ExitGeneral
}
