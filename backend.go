package booklet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/alnah/go-booklet/internal/fileutil"
	"github.com/alnah/go-booklet/internal/pdfdoc"
)

// Document is a read-only source of pages.
type Document interface {
	NumPages() int
	// PageRect returns the natural rectangle of the zero-based page index,
	// anchored at the origin.
	PageRect(index int) (Rect, error)
	Close() error
}

// OutputDocument is the imposed document under construction.
type OutputDocument interface {
	// AddPage appends a page and makes it the target of Place.
	AddPage(width, height float64) error
	// Place draws the content of src into dst on the current page.
	Place(src PageRef, dst Rect) error
	// Save persists the document at path.
	Save(path string) error
	Close() error
}

// Backend is the PDF document service used by the Imposer.
type Backend interface {
	// Open returns ErrProtectedSource if the file needs a password.
	Open(path string) (Document, error)
	NewBlank(width, height float64) (Document, error)
	NewOutput() (OutputDocument, error)
}

// outputPermissions is rw-r--r--: imposed PDFs are meant to be shared with a printer.
const outputPermissions = 0o644

// Compile-time interface implementation checks.
var (
	_ Backend        = pdfBackend{}
	_ Document       = (*pdfDocument)(nil)
	_ OutputDocument = (*pdfOutput)(nil)
)

// pdfBackend adapts internal/pdfdoc to Backend.
type pdfBackend struct{}

// DefaultBackend returns the pdfcpu/fpdf document service.
func DefaultBackend() Backend {
	return pdfBackend{}
}

func (pdfBackend) Open(path string) (Document, error) {
	src, err := pdfdoc.Open(path)
	if err != nil {
		if errors.Is(err, pdfdoc.ErrEncrypted) {
			return nil, fmt.Errorf("%w: %s", ErrProtectedSource, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrOpenSource, err)
	}
	return &pdfDocument{src: src}, nil
}

func (pdfBackend) NewBlank(width, height float64) (Document, error) {
	src, err := pdfdoc.Blank(width, height)
	if err != nil {
		return nil, err
	}
	return &pdfDocument{src: src}, nil
}

func (pdfBackend) NewOutput() (OutputDocument, error) {
	return &pdfOutput{out: pdfdoc.NewOutput()}, nil
}

type pdfDocument struct {
	src *pdfdoc.Source
}

func (d *pdfDocument) NumPages() int { return d.src.NumPages() }

func (d *pdfDocument) PageRect(index int) (Rect, error) {
	size, err := d.src.PageSize(index)
	if err != nil {
		if errors.Is(err, pdfdoc.ErrPageRange) {
			return Rect{}, fmt.Errorf("%w: %w", ErrPageOutOfRange, err)
		}
		return Rect{}, err
	}
	return Rect{X1: size.Width, Y1: size.Height}, nil
}

func (d *pdfDocument) Close() error { return d.src.Close() }

type pdfOutput struct {
	out *pdfdoc.Output
}

func (o *pdfOutput) AddPage(width, height float64) error {
	return o.out.AddPage(width, height)
}

func (o *pdfOutput) Place(src PageRef, dst Rect) error {
	doc, ok := src.Doc().(*pdfDocument)
	if !ok {
		return fmt.Errorf("%w: unsupported document type %T", ErrPlacement, src.Doc())
	}
	return o.out.Place(doc.src, src.Index(), dst.X0, dst.Y0, dst.Width(), dst.Height())
}

func (o *pdfOutput) Save(path string) error {
	var buf bytes.Buffer
	if err := o.out.Write(&buf); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), outputPermissions)
}

func (o *pdfOutput) Close() error { return o.out.Close() }
