package molecule

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// ToSpin partitions the model across the bond pivot-from: it returns the IDs
// of every atom reachable from "from" without passing through pivot, "from"
// included. cyclic is true when pivot can be reached another way, meaning
// the bond is in a ring and has no well-defined side.
//
// The walk keeps its own visited set so the model is never marked.
func (m *Model) ToSpin(pivot, from int) (ids map[int]bool, cyclic bool) {
	ids = make(map[int]bool)
	bfs := traverse.BreadthFirst{
		Visit: func(n graph.Node) {
			ids[int(n.ID())] = true
		},
		Traverse: func(e graph.Edge) bool {
			if int(e.To().ID()) != pivot {
				return true
			}
			if int(e.From().ID()) != from {
				cyclic = true
			}
			return false
		},
	}
	bfs.Walk(m.graph, simple.Node(from), nil)
	return ids, cyclic
}
