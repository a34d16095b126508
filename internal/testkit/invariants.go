// Package testkit holds assertions shared by tests of several packages.
package testkit

import (
	"fmt"

	"typelayout/internal/layout"
)

// CheckLayoutInvariants verifies the bookkeeping of a struct result:
//  1. placements do not overlap and stay within Size
//  2. padding plus component sizes add up to Size, and padding equals Wasted
//  3. packed results carry no padding; the others keep every offset and
//     Size aligned
func CheckLayoutInvariants(s layout.Strategy, r layout.Result) error {
	var end, pad, used uint64
	for i, f := range r.Fields {
		if f.Offset < end {
			return fmt.Errorf("%s: field %d (%s) at %d overlaps previous end %d", s, i, f.Name, f.Offset, end)
		}
		if f.Offset != end+f.PadBefore {
			return fmt.Errorf("%s: field %d (%s) at %d, want %d+%d", s, i, f.Name, f.Offset, end, f.PadBefore)
		}
		end = f.Offset + f.Size
		pad += f.PadBefore
		used += f.Size
	}
	if end+r.TailPad != r.Size {
		return fmt.Errorf("%s: last end %d + tail %d != size %d", s, end, r.TailPad, r.Size)
	}
	if pad+r.TailPad != r.Wasted {
		return fmt.Errorf("%s: padding %d + tail %d != wasted %d", s, pad, r.TailPad, r.Wasted)
	}
	if used+r.Wasted != r.Size {
		return fmt.Errorf("%s: used %d + wasted %d != size %d", s, used, r.Wasted, r.Size)
	}

	if s == layout.Packed {
		if r.Wasted != 0 {
			return fmt.Errorf("packed: wasted %d, want 0", r.Wasted)
		}
		return nil
	}
	if r.Align == 0 {
		if r.Size != 0 {
			return fmt.Errorf("%s: zero align with size %d", s, r.Size)
		}
		return nil
	}
	if r.Size%r.Align != 0 {
		return fmt.Errorf("%s: size %d not a multiple of align %d", s, r.Size, r.Align)
	}
	for i, f := range r.Fields {
		if f.Align != 0 && f.Offset%f.Align != 0 {
			return fmt.Errorf("%s: field %d (%s) offset %d not aligned to %d", s, i, f.Name, f.Offset, f.Align)
		}
	}
	return nil
}
