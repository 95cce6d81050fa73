package partial

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/bondmap/internal/domain/molecule"
)

func TestCut(t *testing.T) {
	// Atom 12 is an oxygen so the fingerprint of edge 11 is distinct.
	m := build(t, molecule.Pre, "2 2 1 1 1 2 2 2 2 2 2 4", chainBonds, "1", "2")

	set, edges := Cut(m, []string{"1", "2"}, nil, DefaultCutDistance)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, set.Values())
	assert.Equal(t, []molecule.EdgeAtom{{ID: "8", Fingerprint: "C"}}, edges)

	set, edges = Cut(m, []string{"1"}, []string{"11"}, 1)
	assert.Equal(t, []string{"1", "2", "6", "11"}, set.Values())
	assert.Equal(t, []molecule.EdgeAtom{
		{ID: "2", Fingerprint: "HHH"},
		{ID: "6", Fingerprint: "C"},
		{ID: "11", Fingerprint: "CO"},
	}, edges)
}
