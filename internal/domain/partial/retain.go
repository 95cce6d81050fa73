package partial

import (
	"github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/domain/molecule"
)

// MaxExtension is the widest edge extension, in bonds.
const MaxExtension = 3

// Extension asks for the neighbourhood of a pre edge atom to be retained up
// to Radius bonds.
type Extension struct {
	Atom   string `json:"atom"`
	Radius int    `json:"radius"`
}

// KeepAllNeighbours adds every bonding atom and its first, second and third
// neighbours to set.
func KeepAllNeighbours(m *molecule.Molecule, bonding []string, set *IDSet) {
	for _, id := range bonding {
		set.Add(id)
		a, ok := m.Atom(id)
		if !ok {
			continue
		}
		for _, tier := range molecule.Tiers {
			set.Add(a.Neighbours(tier).IDs...)
		}
	}
}

// FindEdgeAtoms returns, in natural order, the non-hydrogen atoms of set with
// at least one first neighbour outside set.
func FindEdgeAtoms(m *molecule.Molecule, set *IDSet) []string {
	var edges []string
	for _, id := range set.Values() {
		a, ok := m.Atom(id)
		if !ok || a.IsHydrogen() {
			continue
		}
		for _, n := range a.Neighbours(molecule.First).IDs {
			if !set.Contains(n) {
				edges = append(edges, id)
				break
			}
		}
	}
	return edges
}

// VerifyEdgeAtoms checks how close each edge atom is to an atom whose type
// changes in the reaction. A change at the edge atom itself needs an extension
// of 3 bonds, at a first neighbour 2, at a second neighbour 1. Edge atoms
// with no change nearby are not returned.
func VerifyEdgeAtoms(edges []string, ids *mapping.IDList, pre, post *molecule.Molecule) []Extension {
	changed := func(preID string) bool {
		a, ok := pre.Atom(preID)
		if !ok {
			return false
		}
		postID, ok := ids.PostFor(preID)
		if !ok {
			return false
		}
		b, ok := post.Atom(postID)
		return ok && a.Type != b.Type
	}

	var out []Extension
	for _, id := range edges {
		a, ok := pre.Atom(id)
		if !ok {
			continue
		}
		if changed(id) {
			out = append(out, Extension{Atom: id, Radius: MaxExtension})
			continue
		}
		for d, tier := range []molecule.Tier{molecule.First, molecule.Second} {
			if anyOf(a.Neighbours(tier).IDs, changed) {
				out = append(out, Extension{Atom: id, Radius: MaxExtension - 1 - d})
				break
			}
		}
	}
	return out
}

func anyOf(ids []string, pred func(string) bool) bool {
	for _, id := range ids {
		if pred(id) {
			return true
		}
	}
	return false
}

// ExtendEdgeAtoms grows both retained sets around each extension: the pre
// edge atom's neighbour shells up to the radius, the same shells of its post
// partner, and the partner of every pre atom added.
func ExtendEdgeAtoms(exts []Extension, ids *mapping.IDList, pre, post *molecule.Molecule, preSet, postSet *IDSet) {
	for _, ext := range exts {
		preAtom, ok := pre.Atom(ext.Atom)
		if !ok {
			continue
		}
		var postAtom *molecule.Atom
		if partner, ok := ids.PostFor(ext.Atom); ok {
			postAtom, _ = post.Atom(partner)
		}

		for _, tier := range molecule.Tiers[:clampRadius(ext.Radius)] {
			added := preAtom.Neighbours(tier).IDs
			preSet.Add(added...)
			for _, id := range added {
				if p, ok := ids.PostFor(id); ok {
					postSet.Add(p)
				}
			}
			if postAtom != nil {
				postSet.Add(postAtom.Neighbours(tier).IDs...)
			}
		}
	}
}

func clampRadius(r int) int {
	if r < 0 {
		return 0
	}
	if r > MaxExtension {
		return MaxExtension
	}
	return r
}
