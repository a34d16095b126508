package layout

import "math/bits"

// AlignUp rounds offset up to the next multiple of alignment. alignment must
// be zero or a power of two; zero leaves offset unchanged. The result wraps
// when offset+alignment-1 exceeds MaxUint64; the engine checks with
// alignUpChecked instead.
func AlignUp(offset, alignment uint64) uint64 {
	if alignment == 0 {
		return offset
	}
	return (offset + alignment - 1) &^ (alignment - 1)
}

// alignUpChecked is AlignUp that reports false instead of wrapping.
func alignUpChecked(offset, alignment uint64) (uint64, bool) {
	if alignment == 0 {
		return offset, true
	}
	if _, carry := bits.Add64(offset, alignment-1, 0); carry != 0 {
		return 0, false
	}
	return AlignUp(offset, alignment), true
}

// addChecked returns a+b, or false when the sum does not fit in 64 bits.
func addChecked(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}
