package molecule

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
)

// Topology is a read-only gonum graph.Undirected view of a Molecule's bonds.
// Node ids are atom positions in the molecule. From returns neighbours in
// bond-list order so traversals are reproducible.
type Topology struct {
	mol   *Molecule
	nodes []graph.Node
	from  [][]graph.Node
}

var _ graph.Undirected = (*Topology)(nil)

func newTopology(m *Molecule) *Topology {
	t := &Topology{
		mol:   m,
		nodes: make([]graph.Node, len(m.atoms)),
		from:  make([][]graph.Node, len(m.atoms)),
	}
	for i := range m.atoms {
		t.nodes[i] = simple.Node(i)
	}
	for i, a := range m.atoms {
		seen := make(map[int]struct{})
		for _, id := range a.Neighbours(First).IDs {
			j, ok := m.index[id]
			if !ok {
				continue
			}
			if _, dup := seen[j]; dup {
				continue
			}
			seen[j] = struct{}{}
			t.from[i] = append(t.from[i], t.nodes[j])
		}
	}
	return t
}

// NodeFor returns the node of atom id.
func (t *Topology) NodeFor(id string) (graph.Node, bool) {
	i, ok := t.mol.index[id]
	if !ok {
		return nil, false
	}
	return t.nodes[i], true
}

// AtomID returns the atom id of n.
func (t *Topology) AtomID(n graph.Node) string {
	return t.mol.atoms[n.ID()].ID
}

// AtomIDs maps a node path to atom ids.
func (t *Topology) AtomIDs(nodes []graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = t.AtomID(n)
	}
	return out
}

func (t *Topology) valid(id int64) bool {
	return id >= 0 && id < int64(len(t.nodes))
}

// Node returns the node with the given id if it exists.
func (t *Topology) Node(id int64) graph.Node {
	if !t.valid(id) {
		return nil
	}
	return t.nodes[id]
}

// Nodes returns all nodes in atom order.
func (t *Topology) Nodes() graph.Nodes {
	if len(t.nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(t.nodes)
}

// From returns the neighbours of id in bond-list order.
func (t *Topology) From(id int64) graph.Nodes {
	if !t.valid(id) || len(t.from[id]) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(t.from[id])
}

// HasEdgeBetween reports whether x and y are bonded.
func (t *Topology) HasEdgeBetween(xid, yid int64) bool {
	if !t.valid(xid) || !t.valid(yid) {
		return false
	}
	for _, n := range t.from[xid] {
		if n.ID() == yid {
			return true
		}
	}
	return false
}

// Edge returns the bond from u to v, or nil.
func (t *Topology) Edge(uid, vid int64) graph.Edge {
	if !t.HasEdgeBetween(uid, vid) {
		return nil
	}
	return simple.Edge{F: t.nodes[uid], T: t.nodes[vid]}
}

// EdgeBetween is Edge for the undirected view.
func (t *Topology) EdgeBetween(xid, yid int64) graph.Edge {
	return t.Edge(xid, yid)
}
