package layout

import (
	"sort"

	"typelayout/internal/trace"
	"typelayout/internal/types"
)

// slot is a component as seen by the accumulation loop.
type slot struct {
	name  string
	size  uint64
	align uint64
}

// component resolves name and returns its layout as seen from a struct
// laid out under s. Nested structs recurse with the same strategy, except
// that optimal treats them like no-packing.
func (e *Engine) component(name string, s Strategy, q *query) (types.Layout, error) {
	t, err := e.Types.Resolve(name)
	if err != nil {
		return types.Layout{}, err
	}
	switch t.Kind {
	case types.KindAtomic, types.KindUnion:
		l, _ := t.Stored()
		return l, nil
	case types.KindStruct:
		if s == Optimal {
			s = NoPacking
		}
		r, err := e.structLayout(t, s, q)
		if err != nil {
			return types.Layout{}, err
		}
		return r.Layout(), nil
	default:
		panic("layout: unexpected kind " + t.Kind.String())
	}
}

func (e *Engine) structLayout(t types.Type, s Strategy, q *query) (Result, error) {
	if cached, ok := q.memo.get(t.Name, s); ok {
		return cached, nil
	}
	if at, busy := q.index[t.Name]; busy {
		cycle := append(append([]string(nil), q.stack[at:]...), t.Name)
		return Result{}, &Error{Kind: ErrRecursive, Type: t.Name, Cycle: cycle}
	}
	q.index[t.Name] = len(q.stack)
	q.stack = append(q.stack, t.Name)
	defer func() {
		q.stack = q.stack[:len(q.stack)-1]
		delete(q.index, t.Name)
	}()

	trace.Point(e.tracer(), trace.ScopeNode, "struct", t.Name+" "+s.String(), e.Parent)

	slots := make([]slot, 0, len(t.Components))
	for _, name := range t.Components {
		l, err := e.component(name, s, q)
		if err != nil {
			return Result{}, err
		}
		slots = append(slots, slot{name: name, size: l.Size, align: l.Align})
	}

	var r Result
	var ok bool
	switch s {
	case NoPacking:
		r, ok = accumulate(slots)
	case Packed:
		r, ok = packed(slots)
	case Optimal:
		sort.SliceStable(slots, func(i, j int) bool { return slots[i].align > slots[j].align })
		r, ok = accumulate(slots)
	default:
		panic("layout: unexpected strategy " + s.String())
	}
	if !ok {
		return Result{}, &Error{Kind: ErrOverflow, Type: t.Name}
	}
	q.memo.put(t.Name, s, r)
	return r, nil
}

// accumulate places slots in the given order, padding each to its alignment
// and the total to the largest alignment. It reports false when an offset
// overflows uint64.
func accumulate(slots []slot) (Result, bool) {
	r := Result{Fields: make([]Placement, 0, len(slots))}
	var offset uint64
	for _, sl := range slots {
		aligned, ok := alignUpChecked(offset, sl.align)
		if !ok {
			return Result{}, false
		}
		pad := aligned - offset
		r.Wasted += pad
		r.Fields = append(r.Fields, Placement{
			Name:      sl.name,
			Offset:    aligned,
			Size:      sl.size,
			Align:     sl.align,
			PadBefore: pad,
		})
		if offset, ok = addChecked(aligned, sl.size); !ok {
			return Result{}, false
		}
		r.Align = max(r.Align, sl.align)
	}
	size, ok := alignUpChecked(offset, r.Align)
	if !ok {
		return Result{}, false
	}
	r.Size = size
	r.TailPad = r.Size - offset
	r.Wasted += r.TailPad
	return r, true
}

// packed places slots back to back. Align is reported, not applied.
func packed(slots []slot) (Result, bool) {
	r := Result{Fields: make([]Placement, 0, len(slots))}
	for _, sl := range slots {
		r.Fields = append(r.Fields, Placement{
			Name:   sl.name,
			Offset: r.Size,
			Size:   sl.size,
			Align:  sl.align,
		})
		size, ok := addChecked(r.Size, sl.size)
		if !ok {
			return Result{}, false
		}
		r.Size = size
		r.Align = max(r.Align, sl.align)
	}
	return r, true
}
