package booklet

import (
	"fmt"
	"strings"
)

// Unit conversion: PDF user space units (points) per millimeter.
const MMToPt = 72.0 / 25.4

// MM converts millimeters to points.
func MM(mm float64) float64 {
	return mm * MMToPt
}

// A4 sheet dimensions in points. The landscape sheet is the portrait one transposed.
const (
	PortraitWidth  = 595.276
	PortraitHeight = 841.89

	LandscapeWidth  = PortraitHeight
	LandscapeHeight = PortraitWidth
)

// Defaults for PlacementConfig.
const (
	DefaultSignature = 16
	DefaultOverlapMM = 0.2
)

// Mode selects the pre-processing applied to the source pages.
type Mode string

// Sequencing modes.
const (
	// ModeBook drops the front and back cover and adds two blank pages at each end.
	ModeBook Mode = "book"
	// ModeGB prepends two blank pages (Project Gutenberg exports).
	ModeGB Mode = "gb"
)

// ParseMode returns the Mode named by s (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeBook, ModeGB:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (must be book or gb)", ErrInvalidMode, s)
}

// PadPolicy selects the filler used to complete the last signature.
type PadPolicy string

// Padding policies.
const (
	PadBlank PadPolicy = "blank"
	PadLast  PadPolicy = "last"
)

// ParsePadPolicy returns the PadPolicy named by s (case-insensitive).
// Empty input yields PadBlank.
func ParsePadPolicy(s string) (PadPolicy, error) {
	switch p := PadPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PadBlank, nil
	case PadBlank, PadLast:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (must be blank or last)", ErrInvalidPadding, s)
}

// ScaleMode selects how a source page is mapped into its half-sheet.
type ScaleMode string

// Scale modes.
const (
	// ScaleFit preserves the aspect ratio and centers the page.
	ScaleFit ScaleMode = "fit"
	// ScaleFill stretches the page to cover the destination exactly.
	ScaleFill ScaleMode = "fill"
)

// ParseScaleMode returns the ScaleMode named by s (case-insensitive).
// Empty input yields ScaleFill.
func ParseScaleMode(s string) (ScaleMode, error) {
	switch m := ScaleMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ScaleFill, nil
	case ScaleFit, ScaleFill:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (must be fit or fill)", ErrInvalidScaleMode, s)
}

// PageRef points at one page of a document. The document is borrowed:
// many refs may share one Document and none of them owns it.
type PageRef struct {
	doc   Document
	index int
}

// NewPageRef returns a reference to the zero-based page index of doc.
func NewPageRef(doc Document, index int) PageRef {
	return PageRef{doc: doc, index: index}
}

// Doc returns the referenced document.
func (r PageRef) Doc() Document { return r.doc }

// Index returns the zero-based page index.
func (r PageRef) Index() int { return r.index }

// Sequence is the linear reading order of pages before imposition.
type Sequence []PageRef

// Booklet is a contiguous run of a Sequence, padded to a multiple of 4 pages.
type Booklet []PageRef

// Margins are the unprintable borders of the target sheet, in points.
type Margins struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// UniformMargins returns Margins with the same value on every side.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Left: v, Bottom: v, Right: v}
}

// PlacementConfig holds every run-time setting of an imposition run.
// Lengths are in points; use MM to convert from millimeters.
type PlacementConfig struct {
	Signature int       // pages per signature, positive multiple of 4
	Mode      Mode      // source pre-processing
	Gutter    float64   // blank channel at the fold
	Overlap   float64   // bleed overlap at the spine
	Margins   Margins   // printable area of the landscape sheet
	Creep     float64   // creep compensation per physical sheet, 0 disables it
	Scale     ScaleMode // fit or fill
	Padding   PadPolicy // filler for the last signature
	Strict    bool      // abort on the first failed placement
}

// DefaultPlacementConfig returns the settings used when nothing is configured.
// Mode is left empty: it must be chosen by the caller.
func DefaultPlacementConfig() PlacementConfig {
	return PlacementConfig{
		Signature: DefaultSignature,
		Overlap:   MM(DefaultOverlapMM),
		Scale:     ScaleFill,
		Padding:   PadBlank,
	}
}

// Normalize returns a copy with the signature rounded up to the next
// multiple of 4 and empty enum fields replaced by their defaults.
func (c PlacementConfig) Normalize() PlacementConfig {
	c.Signature = RoundUpToFour(c.Signature)
	if c.Scale == "" {
		c.Scale = ScaleFill
	}
	if c.Padding == "" {
		c.Padding = PadBlank
	}
	return c
}

// Validate checks that the configuration can drive an imposition run.
// Padding is not checked: unknown policies fall back to blank filler.
func (c PlacementConfig) Validate() error {
	if c.Signature <= 0 || c.Signature%4 != 0 {
		return fmt.Errorf("%w: %d (must be a positive multiple of 4)", ErrInvalidSignature, c.Signature)
	}

	switch c.Mode {
	case ModeBook, ModeGB:
	default:
		return fmt.Errorf("%w: %q (must be book or gb)", ErrInvalidMode, c.Mode)
	}

	switch c.Scale {
	case ScaleFit, ScaleFill:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScaleMode, c.Scale)
	}

	if c.Gutter < 0 {
		return fmt.Errorf("%w: negative gutter %.2f", ErrInvalidGeometry, c.Gutter)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: negative overlap %.2f", ErrInvalidGeometry, c.Overlap)
	}
	if c.Creep < 0 {
		return fmt.Errorf("%w: negative creep %.2f", ErrInvalidGeometry, c.Creep)
	}

	m := c.Margins
	if m.Top < 0 || m.Left < 0 || m.Bottom < 0 || m.Right < 0 {
		return fmt.Errorf("%w: negative margin", ErrInvalidGeometry)
	}
	if m.Left+m.Right >= LandscapeWidth || m.Top+m.Bottom >= LandscapeHeight {
		return fmt.Errorf("%w: margins leave no printable area", ErrInvalidGeometry)
	}

	return nil
}
