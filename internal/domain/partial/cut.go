package partial

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/turtacn/bondmap/internal/domain/molecule"
)

// DefaultCutDistance is the bond radius kept around bonding atoms by Cut.
const DefaultCutDistance = 3

// Cut returns the atoms within distance bonds of any bonding atom, plus the
// delete atoms, and the edge atoms of that set. Each edge atom carries the
// fingerprint of its first neighbours left outside the set.
func Cut(m *molecule.Molecule, bonding, deleted []string, distance int) (*IDSet, []molecule.EdgeAtom) {
	set := NewIDSet(deleted...)
	topo := m.Topology()
	for _, id := range bonding {
		start, ok := topo.NodeFor(id)
		if !ok {
			continue
		}
		var bfs traverse.BreadthFirst
		bfs.Walk(topo, start, func(n graph.Node, depth int) bool {
			if depth > distance {
				return true
			}
			set.Add(topo.AtomID(n))
			return false
		})
	}

	var edges []molecule.EdgeAtom
	for _, id := range FindEdgeAtoms(m, set) {
		a, _ := m.Atom(id)
		var outside molecule.Shell
		for _, n := range a.Neighbours(molecule.First).IDs {
			if !set.Contains(n) {
				outside.IDs = append(outside.IDs, n)
				outside.Elements = append(outside.Elements, m.Element(n))
			}
		}
		edges = append(edges, molecule.EdgeAtom{ID: id, Fingerprint: outside.Fingerprint()})
	}
	return set, edges
}
