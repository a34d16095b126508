package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"typelayout/internal/dag"
	"typelayout/internal/diag"
	"typelayout/internal/manager"
	"typelayout/internal/source"
	"typelayout/internal/types"
)

// Result summarises Apply.
type Result struct {
	Defined []string // in definition order
	Skipped []string
}

// Order returns the declarations dependencies first, plus the declarations
// that sit on or depend on a cycle and therefore have no place in the order.
func (s *Schema) Order() (ordered []Decl, cyclic []Decl, blocked []Decl) {
	nodes := make([]dag.Node, len(s.Decls))
	byName := make(map[string]Decl, len(s.Decls))
	for i, d := range s.Decls {
		canon := types.CanonicalName(d.Name)
		deps := make([]string, len(d.Components))
		for j, c := range d.Components {
			deps[j] = types.CanonicalName(c)
		}
		nodes[i] = dag.Node{Name: canon, Deps: deps}
		byName[canon] = d
	}
	idx := dag.BuildIndex(nodes)
	g, _ := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(g)

	placed := make(map[string]bool, len(topo.Order))
	for _, name := range idx.Names(topo.Order) {
		ordered = append(ordered, byName[name])
		placed[name] = true
	}
	onCycle := make(map[string]bool, len(topo.Cycles))
	for _, name := range idx.Names(topo.Cycles) {
		onCycle[name] = true
	}
	for _, d := range s.Decls {
		canon := types.CanonicalName(d.Name)
		switch {
		case placed[canon]:
		case onCycle[canon]:
			cyclic = append(cyclic, d)
		default:
			blocked = append(blocked, d)
		}
	}
	return ordered, cyclic, blocked
}

// Apply defines every valid declaration through m. Names a declaration
// references must be declared in the schema or already known to m.
func (s *Schema) Apply(ctx context.Context, m *manager.Manager, r diag.Reporter) Result {
	var res Result
	ordered, cyclic, blocked := s.Order()

	for _, d := range cyclic {
		diag.ReportError(r, diag.TypCycle, d.Span, fmt.Sprintf("type %q would contain itself", d.Name)).Emit()
		res.Skipped = append(res.Skipped, d.Name)
	}
	for _, d := range blocked {
		diag.ReportError(r, diag.TypCycle, d.Span,
			fmt.Sprintf("type %q depends on a type that contains itself", d.Name)).Emit()
		res.Skipped = append(res.Skipped, d.Name)
	}

	declared := make(map[string]bool, len(s.Decls))
	for _, d := range s.Decls {
		declared[types.CanonicalName(d.Name)] = true
	}
	failed := make(map[string]bool)

	for _, d := range ordered {
		if err := ctx.Err(); err != nil {
			res.Skipped = append(res.Skipped, d.Name)
			continue
		}
		if blockedBy(d, declared, failed, m, r) {
			failed[types.CanonicalName(d.Name)] = true
			res.Skipped = append(res.Skipped, d.Name)
			continue
		}
		if err := define(ctx, m, d); err != nil {
			reportDefineError(r, d, err)
			failed[types.CanonicalName(d.Name)] = true
			res.Skipped = append(res.Skipped, d.Name)
			continue
		}
		res.Defined = append(res.Defined, d.Name)
	}
	return res
}

// blockedBy reports missing components and whether d depends on a
// declaration that already failed. Failures upstream are not reported again.
func blockedBy(d Decl, declared, failed map[string]bool, m *manager.Manager, r diag.Reporter) bool {
	var missing []string
	upstream := false
	for _, c := range d.Components {
		canon := types.CanonicalName(c)
		if failed[canon] {
			upstream = true
			continue
		}
		if declared[canon] {
			continue
		}
		if _, err := m.Registry().Resolve(canon); err != nil {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		diag.ReportError(r, diag.TypUndefined, d.Span,
			fmt.Sprintf("%s %s refers to undefined %s", strings.ToLower(d.Kind.String()), d.Name, quoteAll(missing))).Emit()
		return true
	}
	return upstream
}

func define(ctx context.Context, m *manager.Manager, d Decl) error {
	switch d.Kind {
	case types.KindAtomic:
		return m.DefineAtomic(ctx, d.Name, d.Size, d.Align)
	case types.KindStruct:
		return m.DefineStruct(ctx, d.Name, d.Components)
	case types.KindUnion:
		_, err := m.DefineUnion(ctx, d.Name, d.Components)
		return err
	}
	return fmt.Errorf("schema: unexpected kind %v", d.Kind)
}

func reportDefineError(r diag.Reporter, d Decl, err error) {
	var cycle *types.CycleError
	var undef *types.UndefinedTypeError
	switch {
	case errors.As(err, &cycle):
		diag.ReportError(r, diag.TypCycle, d.Span, err.Error()).Emit()
	case errors.As(err, &undef):
		diag.ReportError(r, diag.TypUndefined, d.Span, err.Error()).Emit()
	default:
		diag.ReportError(r, diag.TypLayout, d.Span, err.Error()).Emit()
	}
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(q, ", ")
}

// Load reads path into fs, parses it and applies it to m.
func Load(ctx context.Context, fs *source.FileSet, path string, m *manager.Manager, r diag.Reporter) (Result, error) {
	id, err := fs.Load(path)
	if err != nil {
		// пустой файл, чтобы у диагностики был путь
		id = fs.AddVirtual(path, nil)
		diag.ReportError(r, diag.IOLoadFileError, source.Span{File: id}, err.Error()).Emit()
		return Result{}, err
	}
	s := Parse(fs.Get(id), r)
	if s == nil {
		return Result{}, nil
	}
	return s.Apply(ctx, m, r), nil
}
