package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []NodeID   // dependencies first
	Batches [][]NodeID // waves of nodes whose dependencies are all earlier
	Cyclic  bool
	Cycles  []NodeID // nodes that sit on a cycle
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]NodeID, 0, nodeCount),
		Batches: make([][]NodeID, 0),
	}

	active := 0
	for i := 0; i < nodeCount; i++ {
		if g.Present[i] {
			active++
		}
	}

	current := make([]NodeID, 0, nodeCount)
	for i := 0; i < nodeCount; i++ {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			current = append(current, toNodeID(i))
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]NodeID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]NodeID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		topo.Cycles = cycleMembers(g, indeg)
	}

	return topo
}

// cycleMembers drops the leftovers that only hang off a cycle (users of a
// cyclic node) by peeling nodes without remaining successors.
func cycleMembers(g Graph, indeg []int) []NodeID {
	nodeCount := len(g.Edges)
	left := make([]bool, nodeCount)
	outdeg := make([]int, nodeCount)
	for i := 0; i < nodeCount; i++ {
		left[i] = g.Present[i] && indeg[i] > 0
	}
	for i := 0; i < nodeCount; i++ {
		if !left[i] {
			continue
		}
		for _, to := range g.Edges[i] {
			if left[int(to)] {
				outdeg[i]++
			}
		}
	}

	changed := true
	for changed {
		changed = false
		for i := 0; i < nodeCount; i++ {
			if !left[i] || outdeg[i] > 0 {
				continue
			}
			left[i] = false
			changed = true
			for j := 0; j < nodeCount; j++ {
				if !left[j] {
					continue
				}
				if slices.Contains(g.Edges[j], toNodeID(i)) {
					outdeg[j]--
				}
			}
		}
	}

	var out []NodeID
	for i := 0; i < nodeCount; i++ {
		if left[i] {
			out = append(out, toNodeID(i))
		}
	}
	return out
}

func toNodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}
