// Package pdfdoc reads source PDFs with pdfcpu and writes imposed output
// with fpdf, importing source pages as form XObjects through gofpdi.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Sentinel errors for document operations.
var (
	ErrEncrypted = errors.New("pdfdoc: document requires a password")
	ErrRead      = errors.New("pdfdoc: cannot read document")
	ErrPageRange = errors.New("pdfdoc: page out of range")
	ErrImport    = errors.New("pdfdoc: page import failed")
	ErrClosed    = errors.New("pdfdoc: document closed")
)

// importBox is the page box imported by gofpdi.
const importBox = "/MediaBox"

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Size is a page size in points.
type Size struct {
	Width  float64
	Height float64
}

// Source is a read-only PDF held in memory.
type Source struct {
	name  string
	rs    io.ReadSeeker // address used by gofpdi as the source key
	sizes []Size
}

// Open reads the PDF file at path.
// Returns ErrEncrypted if the file cannot be opened without a user password.
func Open(path string) (*Source, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, err
	}
	return Read(path, data)
}

// Read parses a PDF from data. name is only used in error messages.
func Read(name string, data []byte) (*Source, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), newConfiguration())
	if err != nil {
		if isPasswordError(err) {
			return nil, fmt.Errorf("%w: %s", ErrEncrypted, name)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, name, err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, name, err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: page dimensions: %v", ErrRead, name, err)
	}

	data, err = flatten(data, ctx.Encrypt != nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: rewrite: %v", ErrRead, name, err)
	}

	sizes := make([]Size, len(dims))
	for i, d := range dims {
		sizes[i] = Size{Width: d.Width, Height: d.Height}
	}

	return &Source{name: name, rs: bytes.NewReader(data), sizes: sizes}, nil
}

// flatten re-serializes data with a classic xref table and no object
// streams, the only layout gofpdi can parse. Encryption is dropped on the way:
// files reaching this point opened without a user password.
func flatten(data []byte, encrypted bool) ([]byte, error) {
	conf := newConfiguration()
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	if encrypted {
		conf.Cmd = model.DECRYPT
	}

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isPasswordError(err error) bool {
	return errors.Is(err, pdfcpu.ErrWrongPassword) || errors.Is(err, pdfcpu.ErrUnknownEncryption)
}

// Blank returns a one-page document with an empty page of the given size.
func Blank(width, height float64) (*Source, error) {
	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdfdoc: generating blank page: %w", err)
	}
	return Read("blank", buf.Bytes())
}

// Name returns the name the source was opened with.
func (s *Source) Name() string { return s.name }

// NumPages returns the number of pages, or 0 once closed.
func (s *Source) NumPages() int { return len(s.sizes) }

// PageSize returns the size of the zero-based page i.
func (s *Source) PageSize(i int) (Size, error) {
	if s.rs == nil {
		return Size{}, ErrClosed
	}
	if i < 0 || i >= len(s.sizes) {
		return Size{}, fmt.Errorf("%w: %d of %d", ErrPageRange, i, len(s.sizes))
	}
	return s.sizes[i], nil
}

// Close drops the in-memory copy.
func (s *Source) Close() error {
	s.rs = nil
	s.sizes = nil
	return nil
}

type tplKey struct {
	src  *Source
	page int
}

// Output is a PDF under construction. Pages are appended in order; each
// source page is imported once and reused for every placement.
type Output struct {
	pdf   *fpdf.Fpdf
	imp   *gofpdi.Importer
	tpls  map[tplKey]int
	pages int
}

// NewOutput creates an empty output document using points as unit.
func NewOutput() *Output {
	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	return &Output{
		pdf:  pdf,
		imp:  gofpdi.NewImporter(),
		tpls: make(map[tplKey]int),
	}
}

// AddPage appends a page of the given size and makes it current.
func (o *Output) AddPage(width, height float64) error {
	if o.pdf == nil {
		return ErrClosed
	}
	o.pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	if err := o.pdf.Error(); err != nil {
		return err
	}
	o.pages++
	return nil
}

// PageCount returns the number of pages added so far.
func (o *Output) PageCount() int { return o.pages }

// Place draws page i of src into the rectangle at (x, y) with size w x h
// on the current page. y is measured from the top of the page.
func (o *Output) Place(src *Source, i int, x, y, w, h float64) (err error) {
	if o.pdf == nil {
		return ErrClosed
	}
	if o.pages == 0 {
		return fmt.Errorf("%w: no current page", ErrImport)
	}
	if _, err := src.PageSize(i); err != nil {
		return err
	}

	// gofpdi reports parse failures by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s page %d: %v", ErrImport, src.name, i+1, r)
		}
	}()

	key := tplKey{src: src, page: i}
	tpl, ok := o.tpls[key]
	if !ok {
		tpl = o.imp.ImportPageFromStream(o.pdf, &src.rs, i+1, importBox)
		o.tpls[key] = tpl
	}
	o.imp.UseImportedTemplate(o.pdf, tpl, x, y, w, h)
	return o.pdf.Error()
}

// Write serializes the document to w.
func (o *Output) Write(w io.Writer) error {
	if o.pdf == nil {
		return ErrClosed
	}
	return o.pdf.Output(w)
}

// Close releases the document. Unwritten content is discarded.
func (o *Output) Close() error {
	o.pdf = nil
	o.imp = nil
	o.tpls = nil
	return nil
}
