package main

// Notes:
// - exitCodeFor is checked against every sentinel it maps, plus wrapped
//   variants to confirm errors.Is is used.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-booklet"
	"github.com/alnah/go-booklet/internal/assets"
	"github.com/alnah/go-booklet/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", booklet.ErrBrowserConnect, ExitBrowser},
		{"page create", booklet.ErrPageCreate, ExitBrowser},
		{"page load", booklet.ErrPageLoad, ExitBrowser},
		{"pdf generation", booklet.ErrPDFGeneration, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("converting: %w", booklet.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"protected source", booklet.ErrProtectedSource, ExitIO},
		{"open source", booklet.ErrOpenSource, ExitIO},
		{"write output", booklet.ErrWriteOutput, ExitIO},
		{"style read", assets.ErrStyleRead, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"write pdf", ErrWritePDF, ExitIO},
		{"create output dir", ErrCreateOutputDir, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"wrapped open source", fmt.Errorf("%w: %w", booklet.ErrOpenSource, os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"invalid flags", ErrInvalidFlags, ExitUsage},
		{"too many inputs", ErrTooManyInputs, ExitUsage},
		{"mode required", ErrModeRequired, ExitUsage},
		{"mode conflict", ErrModeConflict, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config value", config.ErrInvalidValue, ExitUsage},
		{"config field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid signature", booklet.ErrInvalidSignature, ExitUsage},
		{"invalid mode", booklet.ErrInvalidMode, ExitUsage},
		{"invalid padding", booklet.ErrInvalidPadding, ExitUsage},
		{"invalid scale", booklet.ErrInvalidScaleMode, ExitUsage},
		{"invalid geometry", booklet.ErrInvalidGeometry, ExitUsage},
		{"empty html", booklet.ErrEmptyInput, ExitUsage},
		{"style not found", assets.ErrStyleNotFound, ExitUsage},
		{"invalid style name", assets.ErrInvalidStyleName, ExitUsage},
		{"wrapped signature", fmt.Errorf("merging flags: %w", booklet.ErrInvalidSignature), ExitUsage},

		// General errors (exit 1)
		{"strict placement", &booklet.PlacementError{Booklet: 1, Sheet: 2, Err: errors.New("broken stream")}, ExitGeneral},
		{"html conversion", booklet.ErrHTMLConversion, ExitGeneral},
		{"unknown", errors.New("something else"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("standard codes = %d/%d/%d, want 0/1/2", ExitSuccess, ExitGeneral, ExitUsage)
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code <= ExitUsage || code >= 126 {
			t.Errorf("custom code %d outside (2, 126)", code)
		}
	}
}
