package booklet

import "fmt"

// Rect is an axis-aligned rectangle in points. The origin is the top-left
// corner of the sheet and y grows downwards.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// ShiftX returns r moved horizontally by dx.
func (r Rect) ShiftX(dx float64) Rect {
	return Rect{X0: r.X0 + dx, Y0: r.Y0, X1: r.X1 + dx, Y1: r.Y1}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%.2f, %.2f, %.2f, %.2f)", r.X0, r.Y0, r.X1, r.Y1)
}

// HalfRects splits the printable area of a sheet into the left and right
// destination rectangles.
//
// With a zero gutter the halves meet at the midline and each one extends
// overlap/2 past it. With a gutter the halves move gutter/2 away from the
// midline and the overlap then extends each half back towards the other.
func HalfRects(sheetW, sheetH, gutter float64, m Margins, overlap float64) (left, right Rect) {
	innerW := sheetW - m.Left - m.Right
	innerH := sheetH - m.Top - m.Bottom
	half := innerW / 2
	mid := m.Left + half

	y0 := m.Top
	y1 := m.Top + innerH

	if gutter == 0 {
		left = Rect{X0: m.Left, Y0: y0, X1: mid + overlap/2, Y1: y1}
		right = Rect{X0: mid - overlap/2, Y0: y0, X1: m.Left + innerW, Y1: y1}
		return left, right
	}

	offset := gutter / 2
	left = Rect{X0: m.Left - offset, Y0: y0, X1: mid - offset, Y1: y1}
	right = Rect{X0: mid + offset, Y0: y0, X1: m.Left + innerW + offset, Y1: y1}
	if overlap > 0 {
		left.X1 += overlap / 2
		right.X0 -= overlap / 2
	}
	return left, right
}

// FitRect returns where a page of size src is drawn inside dst.
// ScaleFit scales uniformly and centers; any other mode returns dst.
// A degenerate source also yields dst.
func FitRect(dst, src Rect, mode ScaleMode) Rect {
	srcW, srcH := src.Width(), src.Height()
	if srcW <= 0 || srcH <= 0 || mode != ScaleFit {
		return dst
	}

	scale := min(dst.Width()/srcW, dst.Height()/srcH)
	w := srcW * scale
	h := srcH * scale

	x0 := dst.X0 + (dst.Width()-w)/2
	y0 := dst.Y0 + (dst.Height()-h)/2
	return Rect{X0: x0, Y0: y0, X1: x0 + w, Y1: y0 + h}
}

// CreepShift returns the total creep compensation for sheet index i of a
// booklet with sheetsCount sheets. Sheet 0 is the outermost; the innermost
// sheet gets no shift.
func CreepShift(perSheet float64, sheetsCount, i int) float64 {
	if perSheet <= 0 || sheetsCount <= 0 {
		return 0
	}
	return perSheet * float64(max(0, sheetsCount-1-i))
}

// ApplyCreep moves the left half right and the right half left by shift/2 each.
func ApplyCreep(left, right Rect, shift float64) (Rect, Rect) {
	if shift == 0 {
		return left, right
	}
	return left.ShiftX(shift / 2), right.ShiftX(-shift / 2)
}

// SheetRects returns the destination halves for sheet i of a booklet with
// sheetsCount sheets, creep included.
func SheetRects(cfg PlacementConfig, sheetsCount, i int) (left, right Rect) {
	left, right = HalfRects(LandscapeWidth, LandscapeHeight, cfg.Gutter, cfg.Margins, cfg.Overlap)
	return ApplyCreep(left, right, CreepShift(cfg.Creep, sheetsCount, i))
}
