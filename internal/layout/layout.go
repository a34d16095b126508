package layout

import (
	"fmt"

	"typelayout/internal/trace"
	"typelayout/internal/types"
)

// Strategy selects how struct components are placed.
type Strategy uint8

const (
	// NoPacking keeps declaration order and pads each component to its alignment.
	NoPacking Strategy = iota + 1
	// Packed places components back to back with no padding.
	Packed
	// Optimal sorts components by descending alignment before placing them.
	// It is a heuristic and does not search for the minimum size.
	Optimal
)

// Strategies lists every strategy in report order.
var Strategies = []Strategy{NoPacking, Packed, Optimal}

func (s Strategy) String() string {
	switch s {
	case NoPacking:
		return "no-packing"
	case Packed:
		return "packed"
	case Optimal:
		return "optimal"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy maps a label back to a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	for _, st := range Strategies {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

// Placement is one component inside a computed struct layout.
type Placement struct {
	Name      string
	Offset    uint64
	Size      uint64
	Align     uint64
	PadBefore uint64
}

// Result is the layout of a struct under one strategy.
type Result struct {
	Size    uint64
	Align   uint64
	Wasted  uint64
	TailPad uint64

	// Fields in placement order.
	Fields []Placement
}

// Layout drops the placement details.
func (r Result) Layout() types.Layout {
	return types.Layout{Size: r.Size, Align: r.Align}
}

// Engine computes struct and union layouts against a Resolver.
// Results are never stored; every call re-resolves component names.
type Engine struct {
	Types  types.Resolver
	Tracer trace.Tracer
	// Parent is the span node events are attached to.
	Parent uint64
}

// New creates an Engine reading definitions from res.
func New(res types.Resolver) *Engine {
	return &Engine{Types: res, Tracer: trace.Nop}
}

type query struct {
	stack []string
	index map[string]int
	memo  *cache
}

func newQuery() *query {
	return &query{index: make(map[string]int, 8), memo: newCache()}
}

// Compute lays out struct t under strategy s.
func (e *Engine) Compute(t types.Type, s Strategy) (Result, error) {
	if t.Kind != types.KindStruct {
		return Result{}, &Error{Kind: ErrNotStruct, Type: t.Name}
	}
	return e.structLayout(t, s, newQuery())
}

// NoPacking lays out t in declaration order with natural padding.
func (e *Engine) NoPacking(t types.Type) (Result, error) { return e.Compute(t, NoPacking) }

// Packed lays out t with no padding at all.
func (e *Engine) Packed(t types.Type) (Result, error) { return e.Compute(t, Packed) }

// Optimal lays out t after sorting components by descending alignment.
func (e *Engine) Optimal(t types.Type) (Result, error) { return e.Compute(t, Optimal) }

// LayoutOf resolves name and lays it out under s.
func (e *Engine) LayoutOf(name string, s Strategy) (Result, error) {
	t, err := e.Types.Resolve(name)
	if err != nil {
		return Result{}, err
	}
	return e.Compute(t, s)
}

// Effective returns the size and alignment name occupies when used as a
// component: the stored layout for atomics and unions, the no-packing
// layout for structs.
func (e *Engine) Effective(name string) (types.Layout, error) {
	return e.component(name, NoPacking, newQuery())
}

// Union computes the layout of a union over components: the largest size
// rounded up to the largest alignment.
func (e *Engine) Union(components []string) (types.Layout, error) {
	var maxSize, maxAlign uint64
	q := newQuery()
	for _, name := range components {
		l, err := e.component(name, NoPacking, q)
		if err != nil {
			return types.Layout{}, err
		}
		maxSize = max(maxSize, l.Size)
		maxAlign = max(maxAlign, l.Align)
	}
	size, ok := alignUpChecked(maxSize, maxAlign)
	if !ok {
		return types.Layout{}, &Error{Kind: ErrOverflow}
	}
	return types.Layout{Size: size, Align: maxAlign}, nil
}

func (e *Engine) tracer() trace.Tracer {
	if e.Tracer == nil {
		return trace.Nop
	}
	return e.Tracer
}
