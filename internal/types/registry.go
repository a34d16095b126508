package types

import (
	"sort"
	"sync"

	"golang.org/x/text/unicode/norm"

	"typelayout/internal/dag"
)

// Resolver looks up definitions by name.
type Resolver interface {
	Resolve(name string) (Type, error)
}

// Registry stores named definitions for the lifetime of a session.
// One lock guards the map; Read and Update hold it across a whole
// computation so a concurrent redefinition cannot split a layout query.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type, 32)}
}

// CanonicalName returns the form names are stored and looked up under.
func CanonicalName(name string) string {
	return norm.NFC.String(name)
}

// Define inserts t or overwrites a previous definition with the same name.
func (r *Registry) Define(t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.define(t)
}

// Resolve returns the definition for name or an *UndefinedTypeError.
func (r *Registry) Resolve(name string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(name)
}

// Read runs fn with the read lock held. fn must resolve through the given
// Resolver, not through r, to avoid re-locking.
func (r *Registry) Read(fn func(Resolver) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(lockedView{r})
}

// Update runs fn with the write lock held.
func (r *Registry) Update(fn func(*Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(&Tx{r: r})
}

// Names returns every defined name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns a copy of every definition sorted by name.
func (r *Registry) Entries() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Type, 0, len(r.types))
	for _, t := range r.types {
		t.Components = cloneNames(t.Components)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Tx is the write-locked view handed to Update callbacks.
type Tx struct {
	r *Registry
}

func (tx *Tx) Resolve(name string) (Type, error) { return tx.r.resolve(name) }

func (tx *Tx) Define(t Type) error { return tx.r.define(t) }

type lockedView struct{ r *Registry }

func (v lockedView) Resolve(name string) (Type, error) { return v.r.resolve(name) }

func (r *Registry) resolve(name string) (Type, error) {
	t, ok := r.types[CanonicalName(name)]
	if !ok {
		return Type{}, &UndefinedTypeError{Name: name}
	}
	return t, nil
}

func (r *Registry) define(t Type) error {
	t.Name = CanonicalName(t.Name)
	t.Components = cloneNames(t.Components)
	for i, c := range t.Components {
		t.Components[i] = CanonicalName(c)
	}
	if t.IsComposite() {
		if err := r.checkAcyclic(t); err != nil {
			return err
		}
	}
	r.types[t.Name] = t
	return nil
}

// checkAcyclic rebuilds the composition graph with candidate in place. The
// stored graph is acyclic, so any cycle found runs through the candidate.
func (r *Registry) checkAcyclic(candidate Type) error {
	nodes := make([]dag.Node, 0, len(r.types)+1)
	nodes = append(nodes, dag.Node{Name: candidate.Name, Deps: candidate.Components})
	for name, t := range r.types {
		if name == candidate.Name {
			continue
		}
		nodes = append(nodes, dag.Node{Name: name, Deps: t.Components})
	}
	idx := dag.BuildIndex(nodes)
	// Problems are ignored: names are map keys so there are no duplicates,
	// and missing deps are forward references, which fail at query time.
	g, _ := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(g)
	if !topo.Cyclic {
		return nil
	}
	return &CycleError{Name: candidate.Name, Cycle: idx.Names(topo.Cycles)}
}
