package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

type NodeID uint32

// Node is one declaration: a name and the names it is built from.
type Node struct {
	Name string
	Deps []string
}

type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// BuildIndex collects every declared and referenced name, sorts them and
// hands out IDs in that order.
func BuildIndex(nodes []Node) Index {
	uniq := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.Name != "" {
			uniq[n.Name] = struct{}{}
		}
		for _, dep := range n.Deps {
			if dep == "" {
				continue
			}
			uniq[dep] = struct{}{}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]NodeID, len(names))
	for i, name := range names {
		id, err := safecast.Conv[NodeID](i)
		if err != nil {
			panic(fmt.Errorf("node id overflow: %w", err))
		}
		nameToID[name] = id
	}

	return Index{
		NameToID: nameToID,
		IDToName: names,
	}
}

// Names maps ids back to names.
func (idx Index) Names(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
