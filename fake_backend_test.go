package booklet

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// approx compares lengths in points.
func approx(a, b float64) bool { return approxTol(a, b, 1e-3) }

func approxTol(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// fakeDoc is an in-memory Document. Pages listed in broken fail PageRect.
type fakeDoc struct {
	name   string
	sizes  []Rect
	broken map[int]bool
	closed bool
}

func newFakeDoc(name string, n int) *fakeDoc {
	sizes := make([]Rect, n)
	for i := range sizes {
		sizes[i] = Rect{X1: PortraitWidth, Y1: PortraitHeight}
	}
	return &fakeDoc{name: name, sizes: sizes}
}

func (d *fakeDoc) NumPages() int { return len(d.sizes) }

func (d *fakeDoc) PageRect(index int) (Rect, error) {
	if index < 0 || index >= len(d.sizes) {
		return Rect{}, fmt.Errorf("%w: %d", ErrPageOutOfRange, index)
	}
	if d.broken[index] {
		return Rect{}, errors.New("corrupt page")
	}
	return d.sizes[index], nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

// label names a page ref as "doc:index" for readable assertions.
func label(r PageRef) string {
	if d, ok := r.Doc().(*fakeDoc); ok {
		return fmt.Sprintf("%s:%d", d.name, r.Index())
	}
	return fmt.Sprintf("?:%d", r.Index())
}

func labels[S ~[]PageRef](refs S) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = label(r)
	}
	return out
}

// placement records one Place call.
type placement struct {
	Page int // 1-based output page
	Ref  string
	Dst  Rect
}

// fakeOutput records pages and placements.
type fakeOutput struct {
	pages      [][2]float64
	placements []placement
	failPlace  map[string]bool // labels whose placement fails
	failAdd    bool
	savedTo    string
	saveErr    error
	closed     bool
}

func (o *fakeOutput) AddPage(width, height float64) error {
	if o.failAdd {
		return errors.New("out of memory")
	}
	o.pages = append(o.pages, [2]float64{width, height})
	return nil
}

func (o *fakeOutput) Place(src PageRef, dst Rect) error {
	if o.failPlace[label(src)] {
		return errors.New("draw failed")
	}
	o.placements = append(o.placements, placement{Page: len(o.pages), Ref: label(src), Dst: dst})
	return nil
}

func (o *fakeOutput) Save(path string) error {
	if o.saveErr != nil {
		return o.saveErr
	}
	o.savedTo = path
	return nil
}

func (o *fakeOutput) Close() error {
	o.closed = true
	return nil
}

// refsOnPage returns the labels drawn on output page p (1-based).
func (o *fakeOutput) refsOnPage(p int) []string {
	var out []string
	for _, pl := range o.placements {
		if pl.Page == p {
			out = append(out, pl.Ref)
		}
	}
	return out
}

// fakeBackend serves one source document. openErr simulates open failures
// such as protected sources.
type fakeBackend struct {
	src     *fakeDoc
	blank   *fakeDoc
	out     *fakeOutput
	openErr error
	opened  []string
}

func newFakeBackend(pages int) *fakeBackend {
	return &fakeBackend{
		src:   newFakeDoc("src", pages),
		blank: newFakeDoc("blank", 1),
		out:   &fakeOutput{},
	}
}

func (b *fakeBackend) Open(path string) (Document, error) {
	b.opened = append(b.opened, path)
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.src, nil
}

func (b *fakeBackend) NewBlank(width, height float64) (Document, error) {
	return b.blank, nil
}

func (b *fakeBackend) NewOutput() (OutputDocument, error) {
	return b.out, nil
}

// realRefs counts refs that are not blank filler.
func realRefs(refs []string) int {
	n := 0
	for _, r := range refs {
		if !strings.HasPrefix(r, "blank:") {
			n++
		}
	}
	return n
}
