package dag

import "slices"

// Graph holds dependency edges. Edges[dep] lists the nodes built from dep, so
// a topological order puts every dependency before its users.
type Graph struct {
	Edges   [][]NodeID
	Indeg   []int  // unresolved dependencies per node (only present ones count)
	Present []bool // node is declared, not only referenced
}

// MissingDep records a reference to a name that no node declares.
type MissingDep struct {
	From string
	Dep  string
}

// Problems lists what BuildGraph skipped.
type Problems struct {
	Missing    []MissingDep
	Duplicates []string // names declared more than once; the first declaration wins
}

func (p Problems) Empty() bool {
	return len(p.Missing) == 0 && len(p.Duplicates) == 0
}

func BuildGraph(idx Index, nodes []Node) (Graph, Problems) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]NodeID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	var problems Problems

	declared := make([]*Node, nodeCount)
	for i := range nodes {
		n := &nodes[i]
		if n.Name == "" {
			continue
		}
		id, ok := idx.NameToID[n.Name]
		if !ok {
			continue
		}
		if g.Present[int(id)] {
			problems.Duplicates = append(problems.Duplicates, n.Name)
			continue
		}
		g.Present[int(id)] = true
		declared[int(id)] = n
	}

	for to, n := range declared {
		if n == nil || len(n.Deps) == 0 {
			continue
		}
		seen := make(map[NodeID]struct{}, len(n.Deps))
		for _, dep := range n.Deps {
			if dep == "" {
				continue
			}
			from, ok := idx.NameToID[dep]
			if !ok {
				continue
			}
			if _, dup := seen[from]; dup {
				continue
			}
			seen[from] = struct{}{}
			if !g.Present[int(from)] {
				problems.Missing = append(problems.Missing, MissingDep{From: n.Name, Dep: dep})
				continue
			}
			// a self reference stays in the graph and keeps the node cyclic
			g.Edges[int(from)] = append(g.Edges[int(from)], NodeID(to))
			g.Indeg[to]++
		}
	}
	for i := range g.Edges {
		if len(g.Edges[i]) > 1 {
			slices.Sort(g.Edges[i])
		}
	}

	return g, problems
}
