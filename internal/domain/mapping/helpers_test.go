package mapping

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/bondmap/internal/domain/molecule"
)

var symbols = []string{"H", "C", "N", "O"}

var table = molecule.NewElementTable(symbols)

// build makes a molecule from space-separated element symbols (atom ids are
// 1-based positions) and space-separated "a-b" bonds.
func build(t *testing.T, side molecule.Side, elements, bonds string, opts molecule.Options) *molecule.Molecule {
	t.Helper()
	var records []molecule.AtomRecord
	for i, el := range strings.Fields(elements) {
		typ := -1
		for j, s := range symbols {
			if s == el {
				typ = j + 1
			}
		}
		require.NotEqual(t, -1, typ, "unknown element %s", el)
		records = append(records, molecule.AtomRecord{ID: strconv.Itoa(i + 1), Type: strconv.Itoa(typ)})
	}
	var list []molecule.Bond
	for i, b := range strings.Fields(bonds) {
		ends := strings.Split(b, "-")
		require.Len(t, ends, 2)
		list = append(list, molecule.Bond{ID: strconv.Itoa(i + 1), Type: "1", A: ends[0], B: ends[1]})
	}
	m, err := molecule.Build(side, records, list, table, opts)
	require.NoError(t, err)
	return m
}

func atomOf(t *testing.T, m *molecule.Molecule, id string) *molecule.Atom {
	t.Helper()
	a, ok := m.Atom(id)
	require.True(t, ok, "atom %s", id)
	return a
}

// methane returns two methane molecules: C1 with H2-H5 and C6 with H7-H10.
func methane(t *testing.T) *molecule.Molecule {
	return build(t, molecule.Pre,
		"C H H H H C H H H H",
		"1-2 1-3 1-4 1-5 6-7 6-8 6-9 6-10",
		molecule.Options{Bonding: []string{"1", "6"}})
}

// ethane returns ethane (C1-C2, H6-H8 on C1, H3-H5 on C2) and an H2 byproduct
// (H9-H10).
func ethane(t *testing.T) *molecule.Molecule {
	return build(t, molecule.Post,
		"C C H H H H H H H H",
		"1-2 2-3 2-4 2-5 1-6 1-7 1-8 9-10",
		molecule.Options{Bonding: []string{"1", "2"}})
}

func methaneAnchors() Anchors {
	return Anchors{PreBonding: []string{"1", "6"}, PostBonding: []string{"1", "2"}}
}
