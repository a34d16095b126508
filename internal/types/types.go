package types

import "fmt"

// Kind classifies a type definition.
type Kind uint8

const (
	// KindAtomic is a leaf type with an explicit size and alignment.
	KindAtomic Kind = iota + 1
	// KindStruct is an ordered composition laid out on demand.
	KindStruct
	// KindUnion is a composition whose layout is computed once at definition.
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindAtomic:
		return "ATOMIC"
	case KindStruct:
		return "STRUCT"
	case KindUnion:
		return "UNION"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind maps the textual class name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "ATOMIC":
		return KindAtomic, true
	case "STRUCT":
		return KindStruct, true
	case "UNION":
		return KindUnion, true
	}
	return 0, false
}

// Layout is a size/alignment pair in bytes.
type Layout struct {
	Size  uint64
	Align uint64
}

// Type is a named definition held by the Registry.
type Type struct {
	Name       string
	Kind       Kind
	Components []string

	// stored is authoritative for atomics and unions; structs never carry one.
	stored Layout
}

// Atomic builds an ATOMIC definition.
func Atomic(name string, size, align uint64) Type {
	return Type{Name: name, Kind: KindAtomic, stored: Layout{Size: size, Align: align}}
}

// Struct builds a STRUCT definition. Its layout depends on the strategy and
// is computed by the layout engine on every query.
func Struct(name string, components []string) Type {
	return Type{Name: name, Kind: KindStruct, Components: cloneNames(components)}
}

// Union builds a UNION definition with its precomputed layout.
func Union(name string, components []string, l Layout) Type {
	return Type{Name: name, Kind: KindUnion, Components: cloneNames(components), stored: l}
}

// Stored returns the layout recorded at definition time.
// It reports false for structs.
func (t Type) Stored() (Layout, bool) {
	switch t.Kind {
	case KindAtomic, KindUnion:
		return t.stored, true
	case KindStruct:
		return Layout{}, false
	default:
		panic(fmt.Sprintf("types: unexpected kind %v for %q", t.Kind, t.Name))
	}
}

// IsComposite reports whether t references other types by name.
func (t Type) IsComposite() bool {
	return t.Kind == KindStruct || t.Kind == KindUnion
}

func cloneNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}
