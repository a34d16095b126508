// Package manager is the entry point the front ends talk to: it owns a
// registry and runs every define and describe under its lock.
package manager

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"typelayout/internal/describe"
	"typelayout/internal/layout"
	"typelayout/internal/trace"
	"typelayout/internal/types"
)

// Manager wraps a Registry with the define/describe operations.
type Manager struct {
	reg *types.Registry
}

// New returns a Manager over a fresh registry.
func New() *Manager {
	return &Manager{reg: types.NewRegistry()}
}

// NewWithRegistry returns a Manager over reg.
func NewWithRegistry(reg *types.Registry) *Manager {
	if reg == nil {
		reg = types.NewRegistry()
	}
	return &Manager{reg: reg}
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *types.Registry { return m.reg }

// Names lists every defined type in sorted order.
func (m *Manager) Names() []string { return m.reg.Names() }

// DefineAtomic stores an atomic type, overwriting any previous definition.
func (m *Manager) DefineAtomic(ctx context.Context, name string, size, align uint64) error {
	span := m.begin(ctx, "define", name)
	err := m.reg.Define(types.Atomic(name, size, align))
	span.WithExtra("kind", types.KindAtomic.String()).End(errDetail(err))
	return err
}

// DefineStruct stores a struct. Components may name types defined later.
func (m *Manager) DefineStruct(ctx context.Context, name string, components []string) error {
	span := m.begin(ctx, "define", name)
	err := m.reg.Define(types.Struct(name, components))
	span.WithExtra("kind", types.KindStruct.String()).End(errDetail(err))
	return err
}

// DefineUnion computes the union layout from its current members and stores
// it. Every member must already be defined.
func (m *Manager) DefineUnion(ctx context.Context, name string, components []string) (types.Layout, error) {
	span := m.begin(ctx, "define", name)
	var l types.Layout
	err := m.reg.Update(func(tx *types.Tx) error {
		eng := layout.New(tx)
		eng.Tracer = trace.FromContext(ctx)
		eng.Parent = span.ID()
		var err error
		l, err = eng.Union(components)
		if err != nil {
			return err
		}
		return tx.Define(types.Union(name, components, l))
	})
	span.WithExtra("kind", types.KindUnion.String()).
		WithExtra("size", strconv.FormatUint(l.Size, 10)).
		End(errDetail(err))
	if err != nil {
		return types.Layout{}, err
	}
	return l, nil
}

// Describe reports the layout of name under the read lock.
func (m *Manager) Describe(ctx context.Context, name string) (*describe.Report, error) {
	span := m.begin(ctx, "describe", name)
	var rep *describe.Report
	err := m.reg.Read(func(res types.Resolver) error {
		var err error
		rep, err = describe.DescribeWith(res, name, describe.Options{
			Tracer: trace.FromContext(ctx),
			Parent: span.ID(),
		})
		return err
	})
	span.End(errDetail(err))
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// Outcome is one entry of a batch describe.
type Outcome struct {
	Name   string
	Report *describe.Report
	Err    error
}

// Progress observes a batch describe. Methods are called from worker
// goroutines.
type Progress interface {
	Started(name string)
	Finished(o Outcome)
}

// DescribeAll describes names concurrently with at most jobs workers.
// Per-name failures land in Outcome.Err; the returned error is only set when
// ctx is cancelled. Results keep the order of names.
func (m *Manager) DescribeAll(ctx context.Context, names []string, jobs int) ([]Outcome, error) {
	return m.DescribeAllProgress(ctx, names, jobs, nil)
}

// DescribeAllProgress is DescribeAll reporting to p, which may be nil.
func (m *Manager) DescribeAllProgress(ctx context.Context, names []string, jobs int, p Progress) ([]Outcome, error) {
	span := m.begin(ctx, "describe-all", fmt.Sprintf("%d types", len(names)))
	defer span.End("")

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	out := make([]Outcome, len(names))
	if len(names) == 0 {
		return out, nil
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(names)))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if p != nil {
				p.Started(name)
			}
			rep, err := m.Describe(gctx, name)
			out[i] = Outcome{Name: name, Report: rep, Err: err}
			if p != nil {
				p.Finished(out[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

func (m *Manager) begin(ctx context.Context, op, detail string) *trace.Span {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeCommand, op, trace.CurrentSpan(ctx).SpanID)
	return span.WithExtra("type", detail)
}

func errDetail(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
