package booklet

import "fmt"

// SplitSignatures cuts seq into booklets of exactly size pages. A shorter
// remainder becomes a final booklet padded to the next multiple of 4
// according to policy. size must be a positive multiple of 4.
//
// The booklets are new slices; the referenced documents are shared.
func SplitSignatures(seq Sequence, size int, blank PageRef, policy PadPolicy) ([]Booklet, error) {
	if size <= 0 || size%4 != 0 {
		return nil, fmt.Errorf("%w: %d (must be a positive multiple of 4)", ErrInvalidSignature, size)
	}

	booklets := make([]Booklet, 0, len(seq)/size+1)
	idx := 0
	for idx+size <= len(seq) {
		b := make(Booklet, size)
		copy(b, seq[idx:idx+size])
		booklets = append(booklets, b)
		idx += size
	}

	if rem := len(seq) - idx; rem > 0 {
		b := make(Booklet, rem, RoundUpToFour(rem))
		copy(b, seq[idx:])
		booklets = append(booklets, PadBooklet(b, blank, policy))
	}

	return booklets, nil
}

// PadBooklet appends filler pages until len(b) is a multiple of 4.
// PadLast repeats the final page of b; every other policy uses blank.
// An empty booklet stays empty.
func PadBooklet(b Booklet, blank PageRef, policy PadPolicy) Booklet {
	missing := RoundUpToFour(len(b)) - len(b)
	if missing == 0 {
		return b
	}

	filler := blank
	if policy == PadLast {
		filler = b[len(b)-1]
	}
	for range missing {
		b = append(b, filler)
	}
	return b
}
