// Package snapshot saves and restores registry contents as msgpack files.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"typelayout/internal/dag"
	"typelayout/internal/types"
)

// SchemaVersion is bumped whenever the Snapshot format changes.
const SchemaVersion uint16 = 1

// Ext is the conventional file extension.
const Ext = ".tlsnap"

// ErrSchema is returned for snapshots written by an incompatible version.
var ErrSchema = errors.New("snapshot: unsupported schema version")

// Entry is one stored definition. Size and Align are only meaningful for
// atomics and unions.
type Entry struct {
	Name       string   `msgpack:"name"`
	Kind       string   `msgpack:"kind"`
	Size       uint64   `msgpack:"size,omitempty"`
	Align      uint64   `msgpack:"align,omitempty"`
	Components []string `msgpack:"components,omitempty"`
}

// Snapshot is the on-disk payload.
type Snapshot struct {
	Schema  uint16    `msgpack:"schema"`
	ID      string    `msgpack:"id"`
	Created time.Time `msgpack:"created"`
	Types   []Entry   `msgpack:"types"`
}

// Capture copies every definition of reg.
func Capture(reg *types.Registry) *Snapshot {
	entries := reg.Entries()
	s := &Snapshot{
		Schema:  SchemaVersion,
		ID:      uuid.NewString(),
		Created: time.Now().UTC(),
		Types:   make([]Entry, 0, len(entries)),
	}
	for _, t := range entries {
		e := Entry{Name: t.Name, Kind: t.Kind.String(), Components: t.Components}
		if l, ok := t.Stored(); ok {
			e.Size, e.Align = l.Size, l.Align
		}
		s.Types = append(s.Types, e)
	}
	return s
}

// Encode writes s to w.
func Encode(w io.Writer, s *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(s)
}

// Decode reads a snapshot and checks its schema version.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w %d (want %d)", ErrSchema, s.Schema, SchemaVersion)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		return nil, fmt.Errorf("snapshot: bad id %q: %w", s.ID, err)
	}
	return &s, nil
}

// Save writes s to path through a temporary file in the same directory.
func Save(path string, s *Snapshot) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tlsnap-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = Encode(f, s); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// Load reads path.
func Load(path string) (*Snapshot, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Restore defines every entry in reg. A snapshot that is malformed on its
// own leaves reg untouched.
func (s *Snapshot) Restore(reg *types.Registry) error {
	defs := make([]types.Type, 0, len(s.Types))
	nodes := make([]dag.Node, 0, len(s.Types))
	for _, e := range s.Types {
		kind, ok := types.ParseKind(e.Kind)
		if !ok {
			return fmt.Errorf("snapshot: %q has unknown kind %q", e.Name, e.Kind)
		}
		var t types.Type
		switch kind {
		case types.KindAtomic:
			t = types.Atomic(e.Name, e.Size, e.Align)
		case types.KindStruct:
			t = types.Struct(e.Name, e.Components)
		case types.KindUnion:
			t = types.Union(e.Name, e.Components, types.Layout{Size: e.Size, Align: e.Align})
		}
		defs = append(defs, t)
		nodes = append(nodes, entryNode(e))
	}

	idx := dag.BuildIndex(nodes)
	g, problems := dag.BuildGraph(idx, nodes)
	if len(problems.Duplicates) > 0 {
		return fmt.Errorf("snapshot: duplicate entries %v", problems.Duplicates)
	}
	if topo := dag.ToposortKahn(g); topo.Cyclic {
		return &types.CycleError{Name: idx.IDToName[int(topo.Cycles[0])], Cycle: idx.Names(topo.Cycles)}
	}

	// Entries are in name order; the registry accepts forward references.
	return reg.Update(func(tx *types.Tx) error {
		for _, t := range defs {
			if err := tx.Define(t); err != nil {
				return err
			}
		}
		return nil
	})
}

// entryNode keys e and its components the way the registry stores them.
func entryNode(e Entry) dag.Node {
	deps := make([]string, len(e.Components))
	for i, c := range e.Components {
		deps[i] = types.CanonicalName(c)
	}
	return dag.Node{Name: types.CanonicalName(e.Name), Deps: deps}
}
