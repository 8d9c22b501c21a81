package booklet

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/alnah/go-booklet/internal/fileutil"
)

// OutputSuffix is appended to the input stem to name the default output.
const OutputSuffix = " - Booklet.pdf"

// DefaultOutputPath returns the output name used when none is given:
// the input's base name without extension, followed by OutputSuffix.
func DefaultOutputPath(inputPath string) string {
	return fileutil.Stem(inputPath) + OutputSuffix
}

// Slot identifies one quarter of a physical sheet.
type Slot int

// Slots in output order.
const (
	SlotRectoLeft Slot = iota
	SlotRectoRight
	SlotVersoLeft
	SlotVersoRight
)

func (s Slot) String() string {
	switch s {
	case SlotRectoLeft:
		return "recto-left"
	case SlotRectoRight:
		return "recto-right"
	case SlotVersoLeft:
		return "verso-left"
	case SlotVersoRight:
		return "verso-right"
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// PlacementError describes one page that could not be drawn. Outside strict
// mode it is recoverable: the slot stays empty and the run continues.
type PlacementError struct {
	Booklet  int // 1-based
	Sheet    int // 1-based within the booklet
	Slot     Slot
	Position int // 1-based booklet position
	Err      error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("booklet %d sheet %d %s (page %d): %v", e.Booklet, e.Sheet, e.Slot, e.Position, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// Is makes every PlacementError match ErrPlacement.
func (e *PlacementError) Is(target error) bool { return target == ErrPlacement }

// Report summarizes an imposition run.
type Report struct {
	SourcePages    int
	SequenceLength int
	BookletSizes   []int
	Sheets         int
	OutputPages    int
	Skipped        []*PlacementError
}

// Imposer turns a linear PDF into printable booklet sheets.
// Create with NewImposer; an Imposer holds no per-run state.
type Imposer struct {
	backend Backend
	log     io.Writer
}

// Option configures an Imposer.
type Option func(*Imposer)

// WithBackend replaces the PDF document service.
func WithBackend(b Backend) Option {
	return func(im *Imposer) {
		if b != nil {
			im.backend = b
		}
	}
}

// WithLogger sets where progress and skipped placements are reported.
func WithLogger(w io.Writer) Option {
	return func(im *Imposer) {
		if w != nil {
			im.log = w
		}
	}
}

// NewImposer creates an Imposer using DefaultBackend and no logging.
func NewImposer(opts ...Option) *Imposer {
	im := &Imposer{
		backend: DefaultBackend(),
		log:     io.Discard,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

func (im *Imposer) logf(format string, args ...any) {
	fmt.Fprintf(im.log, format+"\n", args...)
}

// Impose reads inputPath, imposes it according to cfg and writes the result
// to outputPath. The configuration is normalized and validated before any
// document is opened. Nothing is written unless the whole run succeeds.
func (im *Imposer) Impose(ctx context.Context, inputPath, outputPath string, cfg PlacementConfig) (*Report, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, err := im.backend.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	im.logf("Input pages: %d", src.NumPages())
	im.logf("Target paper: A4 landscape %.1f x %.1f pt", LandscapeWidth, LandscapeHeight)

	blankDoc, err := im.backend.NewBlank(PortraitWidth, PortraitHeight)
	if err != nil {
		return nil, fmt.Errorf("creating blank page: %w", err)
	}
	defer blankDoc.Close()
	blank := NewPageRef(blankDoc, 0)

	seq, err := BuildSequence(src, blank, cfg.Mode)
	if err != nil {
		return nil, err
	}
	im.logf("Sequence (%s mode): %d pages", cfg.Mode, len(seq))

	booklets, err := SplitSignatures(seq, cfg.Signature, blank, cfg.Padding)
	if err != nil {
		return nil, err
	}

	out, err := im.backend.NewOutput()
	if err != nil {
		return nil, fmt.Errorf("creating output document: %w", err)
	}
	defer out.Close()

	report, err := im.Compose(ctx, out, booklets, blank, cfg)
	if err != nil {
		return nil, err
	}
	report.SourcePages = src.NumPages()
	report.SequenceLength = len(seq)

	if err := out.Save(outputPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	im.logf("Booklet saved to: %s", outputPath)

	return report, nil
}

// Compose draws booklets onto out, one recto and one verso page per sheet,
// sheets in ascending order. Booklets whose length is not a multiple of 4
// are padded first. cfg is used as given.
func (im *Imposer) Compose(ctx context.Context, out OutputDocument, booklets []Booklet, blank PageRef, cfg PlacementConfig) (*Report, error) {
	report := &Report{BookletSizes: make([]int, len(booklets))}

	padded := make([]Booklet, len(booklets))
	for i, b := range booklets {
		if len(b)%4 != 0 {
			im.logf("Padding booklet %d from %d to %d pages", i+1, len(b), RoundUpToFour(len(b)))
			b = PadBooklet(slices.Clone(b), blank, cfg.Padding)
		}
		padded[i] = b
		report.BookletSizes[i] = len(b)
	}
	im.logf("Booklets: %d, sizes: %v", len(padded), report.BookletSizes)

	for i, b := range padded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		im.logf("Processing booklet %d/%d (signature=%d)", i+1, len(padded), len(b))

		if err := im.composeBooklet(out, b, i+1, cfg, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (im *Imposer) composeBooklet(out OutputDocument, b Booklet, number int, cfg PlacementConfig, report *Report) error {
	plan, err := PlanSheets(len(b))
	if err != nil {
		return err
	}

	for i, sheet := range plan {
		left, right := SheetRects(cfg, len(plan), i)
		if shift := CreepShift(cfg.Creep, len(plan), i); shift > 0 {
			im.logf("  sheet %d: creep %.3f pt (%.3f per side)", i+1, shift, shift/2)
		}
		im.logf("  sheet %d: left %v right %v", i+1, left, right)

		faces := [2][2]struct {
			slot Slot
			pos  int
			dst  Rect
		}{
			{{SlotRectoLeft, sheet.LeftRecto, left}, {SlotRectoRight, sheet.RightRecto, right}},
			{{SlotVersoLeft, sheet.LeftVerso, left}, {SlotVersoRight, sheet.RightVerso, right}},
		}

		for _, face := range faces {
			if err := out.AddPage(LandscapeWidth, LandscapeHeight); err != nil {
				return fmt.Errorf("%w: %w", ErrCreatePage, err)
			}
			report.OutputPages++

			for _, p := range face {
				err := placePage(out, b, p.pos, p.dst, cfg.Scale)
				if err == nil {
					continue
				}
				pe := &PlacementError{Booklet: number, Sheet: i + 1, Slot: p.slot, Position: p.pos, Err: err}
				if cfg.Strict {
					return pe
				}
				im.logf("Warning: skipping %v", pe)
				report.Skipped = append(report.Skipped, pe)
			}
		}
		report.Sheets++
	}
	return nil
}

// placePage draws booklet position pos (1-based) into dst.
func placePage(out OutputDocument, b Booklet, pos int, dst Rect, mode ScaleMode) error {
	if pos < 1 || pos > len(b) {
		return fmt.Errorf("%w: position %d of %d", ErrPageOutOfRange, pos, len(b))
	}
	ref := b[pos-1]
	if ref.Doc() == nil {
		return fmt.Errorf("%w: position %d has no document", ErrPageOutOfRange, pos)
	}

	srcRect, err := ref.Doc().PageRect(ref.Index())
	if err != nil {
		return err
	}
	return out.Place(ref, FitRect(dst, srcRect, mode))
}
