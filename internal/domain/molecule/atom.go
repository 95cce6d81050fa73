package molecule

import (
	"sort"
	"strings"
)

// Hydrogen is the element symbol treated as interchangeable by the matcher.
const Hydrogen = "H"

// Tier selects one of the neighbour shells kept per atom.
type Tier int

const (
	// First is the set of directly bonded atoms.
	First Tier = iota
	// Second is the set of atoms two bonds away.
	Second
	// Third is the set of atoms three bonds away.
	Third
)

// Tiers lists the neighbour shells in the order they are compared.
var Tiers = [...]Tier{First, Second, Third}

// String returns the tier name used in log output.
func (t Tier) String() string {
	switch t {
	case First:
		return "first_neighbours"
	case Second:
		return "second_neighbours"
	case Third:
		return "third_neighbours"
	default:
		return "unknown_tier"
	}
}

// Shell is one neighbour tier. IDs and Elements are parallel.
type Shell struct {
	IDs      []string
	Elements []string
}

// Len returns the number of atoms in the shell.
func (s Shell) Len() int { return len(s.IDs) }

// Contains reports whether id is in the shell.
func (s Shell) Contains(id string) bool {
	for _, v := range s.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// Fingerprint returns the shell's elements sorted and concatenated.
func (s Shell) Fingerprint() string {
	return fingerprint(s.Elements)
}

func fingerprint(elements []string) string {
	sorted := append([]string(nil), elements...)
	sort.Strings(sorted)
	return strings.Join(sorted, "")
}

// slot is one first-neighbour position available to the matcher.
type slot struct {
	id      string
	element string
	claimed bool
}

// Atom is one atom of one structure.
//
// The neighbour shells are fixed at construction. The slots are the
// matcher's working copy of the first shell: a slot is claimed once its
// neighbour has been paired, and claimed slots are never released except by
// ResetSlots. The unclaimed slots are therefore always a sub-multiset of the
// first shell.
type Atom struct {
	ID      string
	Type    string
	Element string

	Bonding         bool
	Delete          bool
	Edge            bool
	EdgeFingerprint string

	shells [3]Shell
	slots  []slot
}

// Neighbours returns the shell for tier. The returned slices must not be
// modified.
func (a *Atom) Neighbours(t Tier) Shell {
	return a.shells[t]
}

// Fingerprint returns the sorted, concatenated elements of the tier's shell.
func (a *Atom) Fingerprint(t Tier) string {
	return a.shells[t].Fingerprint()
}

// Degree returns the number of bonded neighbours.
func (a *Atom) Degree() int {
	return len(a.shells[First].IDs)
}

// IsHydrogen reports whether the atom is a hydrogen.
func (a *Atom) IsHydrogen() bool {
	return a.Element == Hydrogen
}

// Remaining returns the unclaimed neighbour slots in bond-list order.
func (a *Atom) Remaining() (ids, elements []string) {
	for _, s := range a.slots {
		if s.claimed {
			continue
		}
		ids = append(ids, s.id)
		elements = append(elements, s.element)
	}
	return ids, elements
}

// Prune claims every unclaimed slot whose neighbour is already mapped.
func (a *Atom) Prune(mapped func(id string) bool) {
	for i := range a.slots {
		if !a.slots[i].claimed && mapped(a.slots[i].id) {
			a.slots[i].claimed = true
		}
	}
}

// Claim marks the first unclaimed slot holding id as consumed. It reports
// false when no such slot exists.
func (a *Atom) Claim(id string) bool {
	for i := range a.slots {
		if !a.slots[i].claimed && a.slots[i].id == id {
			a.slots[i].claimed = true
			return true
		}
	}
	return false
}

// ResetSlots releases every slot.
func (a *Atom) ResetSlots() {
	for i := range a.slots {
		a.slots[i].claimed = false
	}
}

func (a *Atom) setShell(t Tier, ids []string, elements []string) {
	a.shells[t] = Shell{IDs: ids, Elements: elements}
	if t != First {
		return
	}
	a.slots = make([]slot, len(ids))
	for i, id := range ids {
		a.slots[i] = slot{id: id, element: elements[i]}
	}
}
