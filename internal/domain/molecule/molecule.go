// Package molecule models one side of a reaction as a bond graph.
//
// A Molecule is built once from atom and bond records. Every Atom carries its
// first, second and third neighbour shells, fixed at construction, plus a set
// of neighbour slots that the mapping engine consumes as pairs are found.
// Atom ids are opaque strings and are never compared across structures.
package molecule

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/turtacn/bondmap/pkg/errors"
)

// Side labels which structure a Molecule represents.
type Side string

const (
	Pre  Side = "pre"
	Post Side = "post"
)

// AtomRecord is one atom row of an input file.
type AtomRecord struct {
	ID   string
	Type string
}

// EdgeAtom names an edge atom and the fingerprint of the neighbours that lie
// outside its partial structure.
type EdgeAtom struct {
	ID          string
	Fingerprint string
}

// Options carries the role annotations applied while building.
type Options struct {
	// Bonding atoms are excluded from second and third shells.
	Bonding []string
	Delete  []string
	Edges   []EdgeAtom
	// Create atoms exist only after the reaction. They are dropped from the
	// molecule and from every neighbour list.
	Create []string
}

// Molecule is an ordered set of atoms with their bond graph.
type Molecule struct {
	side      Side
	atoms     []*Atom
	index     map[string]int
	bonds     []Bond
	adjacency Adjacency
	create    []string
	bonding   []string
	topology  *Topology
}

// Build constructs a Molecule from records. Every malformed reference is
// collected before failing, so a single StructuralIntegrity error names all
// dangling bonds and unknown role ids at once.
func Build(side Side, records []AtomRecord, bonds []Bond, elements ElementTable, opts Options) (*Molecule, error) {
	var errs error

	known := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	elementOf := make(map[string]string, len(records))
	for _, r := range records {
		if _, dup := known[r.ID]; dup {
			errs = multierr.Append(errs, errors.New(errors.ErrCodeStructuralIntegrity,
				fmt.Sprintf("atom %s is declared twice", r.ID)))
			continue
		}
		known[r.ID] = struct{}{}
		ids = append(ids, r.ID)
		el, err := elements.Lookup(r.Type)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, errors.ErrCodeUnknownAtomType,
				fmt.Sprintf("atom %s has no element", r.ID)))
			continue
		}
		elementOf[r.ID] = el
	}

	for _, b := range bonds {
		for _, end := range [2]string{b.A, b.B} {
			if _, ok := known[end]; !ok {
				errs = multierr.Append(errs, errors.New(errors.ErrCodeUnknownAtom,
					fmt.Sprintf("bond %s references unknown atom %s", b.ID, end)))
			}
		}
	}

	checkRole := func(role string, roleIDs []string) {
		for _, id := range roleIDs {
			if _, ok := known[id]; !ok {
				errs = multierr.Append(errs, errors.New(errors.ErrCodeUnknownAtom,
					fmt.Sprintf("%s atom %s is not in the %s structure", role, id, side)))
			}
		}
	}
	checkRole("bonding", opts.Bonding)
	checkRole("delete", opts.Delete)
	checkRole("create", opts.Create)
	for _, e := range opts.Edges {
		checkRole("edge", []string{e.ID})
	}

	if errs != nil {
		return nil, errors.Wrap(errs, errors.ErrCodeStructuralIntegrity,
			fmt.Sprintf("%s structure is malformed", side))
	}

	adj := FirstNeighbours(ids, bonds).Without(opts.Create)

	m := &Molecule{
		side:      side,
		index:     make(map[string]int, len(ids)),
		bonds:     bonds,
		adjacency: adj,
		create:    append([]string(nil), opts.Create...),
		bonding:   append([]string(nil), opts.Bonding...),
	}

	bonding := toSet(opts.Bonding)
	deleted := toSet(opts.Delete)
	edges := make(map[string]string, len(opts.Edges))
	for _, e := range opts.Edges {
		edges[e.ID] = e.Fingerprint
	}

	typeOf := make(map[string]string, len(records))
	for _, r := range records {
		typeOf[r.ID] = r.Type
	}

	for _, id := range ids {
		if _, ok := adj[id]; !ok {
			continue
		}
		a := &Atom{
			ID:      id,
			Type:    typeOf[id],
			Element: elementOf[id],
		}
		_, a.Bonding = bonding[id]
		_, a.Delete = deleted[id]
		a.EdgeFingerprint, a.Edge = edges[id]

		first := adj[id]
		second := AdditionalNeighbours(adj, id, first, opts.Bonding)
		third := AdditionalNeighbours(adj, id, second, opts.Bonding)
		a.setShell(First, first, lookup(elementOf, first))
		a.setShell(Second, second, lookup(elementOf, second))
		a.setShell(Third, third, lookup(elementOf, third))

		m.index[id] = len(m.atoms)
		m.atoms = append(m.atoms, a)
	}
	return m, nil
}

func lookup(elementOf map[string]string, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = elementOf[id]
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Side returns which structure m represents.
func (m *Molecule) Side() Side { return m.side }

// Len returns the number of atoms, create atoms excluded.
func (m *Molecule) Len() int { return len(m.atoms) }

// Atom returns the atom with id.
func (m *Molecule) Atom(id string) (*Atom, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return m.atoms[i], true
}

// Has reports whether id is an atom of m.
func (m *Molecule) Has(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Element returns the element of id, or "" for an unknown id.
func (m *Molecule) Element(id string) string {
	if a, ok := m.Atom(id); ok {
		return a.Element
	}
	return ""
}

// Atoms returns the atoms in input order.
func (m *Molecule) Atoms() []*Atom { return m.atoms }

// IDs returns the atom ids in input order.
func (m *Molecule) IDs() []string {
	out := make([]string, len(m.atoms))
	for i, a := range m.atoms {
		out[i] = a.ID
	}
	return out
}

// Bonds returns the bond list the molecule was built from.
func (m *Molecule) Bonds() []Bond { return m.bonds }

// Adjacency returns the first-neighbour lists keyed by atom id.
func (m *Molecule) Adjacency() Adjacency { return m.adjacency }

// CreateAtoms returns the ids declared as created by the reaction.
func (m *Molecule) CreateAtoms() []string { return m.create }

// BondingAtoms returns the bonding atom ids in the order they were declared.
func (m *Molecule) BondingAtoms() []string { return m.bonding }

// EdgeAtoms returns the edge atoms in input order.
func (m *Molecule) EdgeAtoms() []*Atom {
	var out []*Atom
	for _, a := range m.atoms {
		if a.Edge {
			out = append(out, a)
		}
	}
	return out
}

// DeleteAtoms returns the ids of atoms flagged for deletion in input order.
func (m *Molecule) DeleteAtoms() []string {
	var out []string
	for _, a := range m.atoms {
		if a.Delete {
			out = append(out, a.ID)
		}
	}
	return out
}

// ResetSlots releases every neighbour slot of every atom.
func (m *Molecule) ResetSlots() {
	for _, a := range m.atoms {
		a.ResetSlots()
	}
}

// Topology returns the gonum view of the bond graph.
func (m *Molecule) Topology() *Topology {
	if m.topology == nil {
		m.topology = newTopology(m)
	}
	return m.topology
}
