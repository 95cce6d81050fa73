package partial

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/turtacn/bondmap/internal/domain/molecule"
)

// Byproducts returns the post atoms with no bond path to the first bonding
// atom: fragments split off by the reaction that are not deleted. The second
// bonding atom is bonded to the first after the reaction, so one is enough.
func Byproducts(post *molecule.Molecule, bonding []string) []string {
	if len(bonding) == 0 {
		return nil
	}
	topo := post.Topology()
	start, ok := topo.NodeFor(bonding[0])
	if !ok {
		return nil
	}

	var bfs traverse.BreadthFirst
	bfs.Walk(topo, start, nil)

	var out []string
	for _, n := range graph.NodesOf(topo.Nodes()) {
		if !bfs.Visited(n) {
			out = append(out, topo.AtomID(n))
		}
	}
	return molecule.SortedIDs(out)
}
