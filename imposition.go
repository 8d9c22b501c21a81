package booklet

import "fmt"

// Sheet holds the 1-based booklet positions printed on one physical sheet.
type Sheet struct {
	LeftRecto  int
	RightRecto int
	LeftVerso  int
	RightVerso int
}

// Positions returns the four positions in recto-left, recto-right,
// verso-left, verso-right order.
func (s Sheet) Positions() [4]int {
	return [4]int{s.LeftRecto, s.RightRecto, s.LeftVerso, s.RightVerso}
}

// SheetPlan lists the sheets of one booklet, outermost first.
type SheetPlan []Sheet

// RoundUpToFour returns the smallest multiple of 4 not less than n, or 0 for n <= 0.
func RoundUpToFour(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4 * 4
}

// PlanSheets computes the saddle-stitch imposition of an n-page booklet.
// Stacked, folded once and trimmed, the sheets read 1..n in order.
func PlanSheets(n int) (SheetPlan, error) {
	if n <= 0 || n%4 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBookletLength, n)
	}

	plan := make(SheetPlan, n/4)
	for i := range plan {
		plan[i] = Sheet{
			LeftRecto:  n - 2*i,
			RightRecto: 1 + 2*i,
			LeftVerso:  2 + 2*i,
			RightVerso: n - 1 - 2*i,
		}
	}
	return plan, nil
}
