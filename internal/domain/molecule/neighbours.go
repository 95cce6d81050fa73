package molecule

// Bond is one row of a bond list. A and B are the bonded atom ids.
type Bond struct {
	ID   string
	Type string
	A    string
	B    string
}

// Other returns the partner of id in the bond, or "" when id is not an
// endpoint.
func (b Bond) Other(id string) string {
	switch id {
	case b.A:
		return b.B
	case b.B:
		return b.A
	}
	return ""
}

// Adjacency maps an atom id to its bonded neighbours in bond-list order.
type Adjacency map[string][]string

// FirstNeighbours scans bonds for every atom in ids. An atom bonded twice to
// the same partner lists it twice, as the bond list does.
func FirstNeighbours(ids []string, bonds []Bond) Adjacency {
	adj := make(Adjacency, len(ids))
	for _, id := range ids {
		adj[id] = nil
	}
	for _, b := range bonds {
		if _, ok := adj[b.A]; ok {
			adj[b.A] = append(adj[b.A], b.B)
		}
		if _, ok := adj[b.B]; ok {
			adj[b.B] = append(adj[b.B], b.A)
		}
	}
	return adj
}

// Without returns a copy of adj with every id in drop removed, both as a key
// and from every neighbour list.
func (adj Adjacency) Without(drop []string) Adjacency {
	if len(drop) == 0 {
		return adj
	}
	skip := make(map[string]struct{}, len(drop))
	for _, id := range drop {
		skip[id] = struct{}{}
	}
	out := make(Adjacency, len(adj))
	for id, neighbours := range adj {
		if _, gone := skip[id]; gone {
			continue
		}
		kept := make([]string, 0, len(neighbours))
		for _, n := range neighbours {
			if _, gone := skip[n]; !gone {
				kept = append(kept, n)
			}
		}
		out[id] = kept
	}
	return out
}

// AdditionalNeighbours returns the shell one bond beyond previous, for atom.
//
// It is the union of the neighbours of every atom in previous, minus atom
// itself, the bonding atoms, the previous shell and, when previous is not
// atom's first shell, the first shell as well. Order follows discovery.
func AdditionalNeighbours(adj Adjacency, atom string, previous []string, bonding []string) []string {
	exclude := make(map[string]struct{}, len(previous)+len(bonding)+1)
	exclude[atom] = struct{}{}
	for _, id := range bonding {
		exclude[id] = struct{}{}
	}
	for _, id := range previous {
		exclude[id] = struct{}{}
	}
	first := adj[atom]
	if !sameIDs(first, previous) {
		for _, id := range first {
			exclude[id] = struct{}{}
		}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, p := range previous {
		for _, n := range adj[p] {
			if _, skip := exclude[n]; skip {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
