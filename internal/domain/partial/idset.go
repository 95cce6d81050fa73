package partial

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/turtacn/bondmap/internal/domain/molecule"
)

// IDSet is an atom id set iterated in natural order.
type IDSet struct {
	s *treeset.Set
}

func naturalComparator(a, b interface{}) int {
	return molecule.NaturalCompare(a.(string), b.(string))
}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) *IDSet {
	set := &IDSet{s: treeset.NewWith(naturalComparator)}
	set.Add(ids...)
	return set
}

// Add inserts ids. Empty ids are ignored.
func (set *IDSet) Add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			set.s.Add(id)
		}
	}
}

// AddSet inserts every id of other.
func (set *IDSet) AddSet(other *IDSet) {
	if other == nil {
		return
	}
	set.Add(other.Values()...)
}

// Contains reports whether id is in the set.
func (set *IDSet) Contains(id string) bool { return set.s.Contains(id) }

// Len returns the number of ids.
func (set *IDSet) Len() int { return set.s.Size() }

// Values returns the ids in natural order.
func (set *IDSet) Values() []string {
	vals := set.s.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}

// Clone returns an independent copy.
func (set *IDSet) Clone() *IDSet {
	return NewIDSet(set.Values()...)
}
