// Package describe turns a registry entry into a structured layout report.
package describe

import (
	"fmt"

	"typelayout/internal/layout"
	"typelayout/internal/trace"
	"typelayout/internal/types"
)

// StrategyResult is one labelled struct layout.
type StrategyResult struct {
	Strategy layout.Strategy
	Result   layout.Result
}

// Report describes one type. Atomics and unions carry Layout; structs carry
// one entry per strategy in layout.Strategies order.
type Report struct {
	Name       string
	Kind       types.Kind
	Components []string
	Layout     *layout.Result
	Strategies []StrategyResult
}

// Options tunes Describe.
type Options struct {
	Tracer trace.Tracer
	Parent uint64
}

// Describe builds the report for name. It never mutates the registry.
func Describe(res types.Resolver, name string) (*Report, error) {
	return DescribeWith(res, name, Options{})
}

// DescribeWith is Describe with tracing attached to the engine.
func DescribeWith(res types.Resolver, name string, opts Options) (*Report, error) {
	t, err := res.Resolve(name)
	if err != nil {
		return nil, err
	}
	eng := layout.New(res)
	if opts.Tracer != nil {
		eng.Tracer = opts.Tracer
	}
	eng.Parent = opts.Parent

	rep := &Report{Name: t.Name, Kind: t.Kind, Components: t.Components}
	switch t.Kind {
	case types.KindAtomic:
		l, _ := t.Stored()
		rep.Layout = &layout.Result{Size: l.Size, Align: l.Align}
	case types.KindUnion:
		l, _ := t.Stored()
		wasted, err := unionWaste(eng, t, l)
		if err != nil {
			return nil, err
		}
		rep.Layout = &layout.Result{Size: l.Size, Align: l.Align, Wasted: wasted, TailPad: wasted}
	case types.KindStruct:
		rep.Strategies = make([]StrategyResult, 0, len(layout.Strategies))
		for _, s := range layout.Strategies {
			span := trace.Begin(opts.Tracer, trace.ScopeLayout, s.String(), opts.Parent)
			r, err := eng.Compute(t, s)
			if err != nil {
				span.End(err.Error())
				return nil, err
			}
			span.WithExtra("size", fmt.Sprint(r.Size)).WithExtra("wasted", fmt.Sprint(r.Wasted)).End(t.Name)
			rep.Strategies = append(rep.Strategies, StrategyResult{Strategy: s, Result: r})
		}
	default:
		panic(fmt.Sprintf("describe: unexpected kind %v for %q", t.Kind, t.Name))
	}
	return rep, nil
}

// unionWaste is the stored size minus the largest member. A member that
// grew after the union was defined yields zero rather than underflowing.
func unionWaste(eng *layout.Engine, t types.Type, stored types.Layout) (uint64, error) {
	var largest uint64
	for _, name := range t.Components {
		l, err := eng.Effective(name)
		if err != nil {
			return 0, err
		}
		largest = max(largest, l.Size)
	}
	if largest > stored.Size {
		return 0, nil
	}
	return stored.Size - largest, nil
}

// Result returns the struct result for s.
func (r *Report) Result(s layout.Strategy) (layout.Result, bool) {
	for _, sr := range r.Strategies {
		if sr.Strategy == s {
			return sr.Result, true
		}
	}
	return layout.Result{}, false
}
