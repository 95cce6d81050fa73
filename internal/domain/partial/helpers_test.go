package partial

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/domain/molecule"
)

// Types 2 and 3 are both carbon so a reaction can change an atom's type
// without changing its element.
var table = molecule.NewElementTable([]string{"H", "C", "C", "O", "N"})

// build makes a molecule from space-separated atom types (ids are 1-based
// positions) and space-separated "a-b" bonds.
func build(t *testing.T, side molecule.Side, types, bonds string, bonding ...string) *molecule.Molecule {
	t.Helper()
	var records []molecule.AtomRecord
	for i, typ := range strings.Fields(types) {
		records = append(records, molecule.AtomRecord{ID: strconv.Itoa(i + 1), Type: typ})
	}
	var list []molecule.Bond
	for i, b := range strings.Fields(bonds) {
		ends := strings.Split(b, "-")
		require.Len(t, ends, 2)
		list = append(list, molecule.Bond{ID: strconv.Itoa(i + 1), Type: "1", A: ends[0], B: ends[1]})
	}
	m, err := molecule.Build(side, records, list, table, molecule.Options{Bonding: bonding})
	require.NoError(t, err)
	return m
}

func identity(t *testing.T, n int) *mapping.IDList {
	t.Helper()
	ids := mapping.NewIDList()
	for i := 1; i <= n; i++ {
		id := strconv.Itoa(i)
		require.NoError(t, ids.Add(id, id))
	}
	return ids
}

// chainBonds is 8-7-6-1-2(-3)(-4)(-5) continued past 8 as 8-9-10-11-12.
const chainBonds = "1-2 2-3 2-4 2-5 1-6 6-7 7-8 8-9 9-10 10-11 11-12"

// chainTypes has hydrogens on 3, 4 and 5 and type-2 carbon elsewhere.
const chainTypes = "2 2 1 1 1 2 2 2 2 2 2 2"

// retype returns chainTypes with the atoms in ids switched to type 3.
func retype(ids ...int) string {
	types := strings.Fields(chainTypes)
	for _, id := range ids {
		types[id-1] = "3"
	}
	return strings.Join(types, " ")
}

// ring is a six-membered carbon ring 1..6 with an oxygen on 4 and a nitrogen
// on 1. When open is set the 6-1 bond is missing.
func ring(t *testing.T, side molecule.Side, open bool) *molecule.Molecule {
	bonds := "1-2 2-3 3-4 4-5 5-6 6-1 4-7 1-8"
	if open {
		bonds = "1-2 2-3 3-4 4-5 5-6 4-7 1-8"
	}
	return build(t, side, "2 2 2 2 2 2 4 5", bonds, "1")
}
