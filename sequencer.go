package booklet

import "fmt"

// Number of blank pages added for binding.
const bindingBlanks = 2

// BuildSequence lists the pages of src in reading order and applies the
// mode's pre-processing. src is not modified.
//
// ModeBook drops the first and last page when there are at least two, then
// adds two blanks at each end. ModeGB prepends two blanks.
func BuildSequence(src Document, blank PageRef, mode Mode) (Sequence, error) {
	n := src.NumPages()

	switch mode {
	case ModeBook:
		first, last := 0, n
		if n >= 2 {
			first, last = 1, n-1
		}
		seq := make(Sequence, 0, last-first+2*bindingBlanks)
		seq = appendBlanks(seq, blank, bindingBlanks)
		for i := first; i < last; i++ {
			seq = append(seq, NewPageRef(src, i))
		}
		return appendBlanks(seq, blank, bindingBlanks), nil

	case ModeGB:
		seq := make(Sequence, 0, n+bindingBlanks)
		seq = appendBlanks(seq, blank, bindingBlanks)
		for i := range n {
			seq = append(seq, NewPageRef(src, i))
		}
		return seq, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

func appendBlanks(seq Sequence, blank PageRef, n int) Sequence {
	for range n {
		seq = append(seq, blank)
	}
	return seq
}
