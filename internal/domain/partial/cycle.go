// Package partial cuts a mapped reaction down to the atoms a reaction
// template needs: the reacting site, rings through it, by-products and a
// margin wide enough that no force-field term is truncated.
package partial

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/domain/molecule"
)

// Ring is a ring through a bonding atom.
type Ring struct {
	Bonding string `json:"bonding"`
	// Path runs from a first neighbour of Bonding back to Bonding the long
	// way round.
	Path []string `json:"path"`
	// Preserved is every path atom plus its first neighbours.
	Preserved *IDSet `json:"-"`
}

// IsCyclic returns the ring of every bonding atom that sits on one.
func IsCyclic(m *molecule.Molecule, bonding []string) []Ring {
	var rings []Ring
	for _, id := range bonding {
		if r, ok := FindRing(m, id); ok {
			rings = append(rings, r)
		}
	}
	return rings
}

// FindRing searches breadth-first from each first neighbour of bonding back
// to bonding, with the direct bond between the two excluded. The first path
// found defines the ring.
func FindRing(m *molecule.Molecule, bonding string) (Ring, bool) {
	atom, ok := m.Atom(bonding)
	if !ok {
		return Ring{}, false
	}
	topo := m.Topology()
	target, _ := topo.NodeFor(bonding)

	for _, startID := range atom.Neighbours(molecule.First).IDs {
		start, ok := topo.NodeFor(startID)
		if !ok {
			continue
		}
		nodes := ringPath(topo, start, target)
		if nodes == nil {
			continue
		}
		path := topo.AtomIDs(nodes)
		preserved := NewIDSet()
		for _, id := range path {
			preserved.Add(id)
			if a, ok := m.Atom(id); ok {
				preserved.Add(a.Neighbours(molecule.First).IDs...)
			}
		}
		return Ring{Bonding: bonding, Path: path, Preserved: preserved}, true
	}
	return Ring{}, false
}

// ringPath walks g breadth-first from start and returns the node path to
// target, or nil. The bond between start and target is never followed.
func ringPath(g graph.Undirected, start, target graph.Node) []graph.Node {
	parent := make(map[int64]graph.Node)
	var bfs traverse.BreadthFirst
	bfs.Traverse = func(e graph.Edge) bool {
		from, to := e.From(), e.To()
		if isLink(from, to, start, target) {
			return false
		}
		if _, seen := parent[to.ID()]; !seen && !bfs.Visited(to) {
			parent[to.ID()] = from
		}
		return true
	}

	found := bfs.Walk(g, start, func(n graph.Node, _ int) bool {
		return n.ID() == target.ID()
	})
	if found == nil {
		return nil
	}

	path := []graph.Node{found}
	for n := found; n.ID() != start.ID(); {
		n = parent[n.ID()]
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func isLink(u, v, a, b graph.Node) bool {
	return (u.ID() == a.ID() && v.ID() == b.ID()) || (u.ID() == b.ID() && v.ID() == a.ID())
}

// IsRingOpening compares the rings on both sides. A pre bonding atom on a ring
// whose post partner is on none marks a ring-opening reaction; the pre ring
// and its mapped image are then returned as the atoms both sides must keep.
func IsRingOpening(pre, post []Ring, ids *mapping.IDList) (preSet, postSet *IDSet, opening bool) {
	preSet, postSet = NewIDSet(), NewIDSet()
	cyclic := make(map[string]struct{}, len(post))
	for _, r := range post {
		cyclic[r.Bonding] = struct{}{}
	}

	for _, r := range pre {
		partner, ok := ids.PostFor(r.Bonding)
		if !ok {
			continue
		}
		if _, still := cyclic[partner]; still {
			continue
		}
		opening = true
		preSet.Add(r.Bonding)
		preSet.AddSet(r.Preserved)
		postSet.Add(partner)
		for _, id := range r.Preserved.Values() {
			if p, ok := ids.PostFor(id); ok {
				postSet.Add(p)
			}
		}
	}
	return preSet, postSet, opening
}
