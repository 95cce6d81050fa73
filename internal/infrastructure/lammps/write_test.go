package lammps

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/internal/testutil"
)

func TestWriteMolecule_Full(t *testing.T) {
	src := parse(t, testutil.MethaneData)

	var buf bytes.Buffer
	require.NoError(t, WriteMolecule(&buf, MoleculeSpec{Source: src, Bonding: []string{"1", "6"}}))

	out := parse(t, buf.String())
	bonding, ok := out.TopComment(CommentBonding)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "6"}, bonding)
	assert.Equal(t, []string{SectionTypes, SectionCharges, SectionCoords, SectionBonds, SectionAngles}, sectionNames(out))

	for kind, want := range map[string]int{"atoms": 10, "bonds": 8, "angles": 6, "dihedrals": 0, "impropers": 0} {
		n, ok := out.Count(kind)
		assert.True(t, ok, kind)
		assert.Equal(t, want, n, kind)
	}

	records, err := out.AtomRecords()
	require.NoError(t, err)
	assert.Equal(t, molecule.AtomRecord{ID: "10", Type: "1"}, records[9])
	assert.Equal(t, []string{"6", "-0.24"}, out.Rows(SectionCharges)[5].Fields)
	assert.Equal(t, []string{"2", "1.630", "1.630", "1.630"}, out.Rows(SectionCoords)[1].Fields)
}

func TestWriteMolecule_Renumbered(t *testing.T) {
	src := parse(t, testutil.MethaneData)
	// Keep the second methane only, as atoms 1..5.
	table := map[string]string{"6": "1", "7": "2", "8": "3", "9": "4", "10": "5"}

	var buf bytes.Buffer
	require.NoError(t, WriteMolecule(&buf, MoleculeSpec{Source: src, Renumber: table, Bonding: []string{"1"}}))

	out := parse(t, buf.String())
	records, err := out.AtomRecords()
	require.NoError(t, err)
	assert.Equal(t, []molecule.AtomRecord{
		{ID: "1", Type: "2"}, {ID: "2", Type: "1"}, {ID: "3", Type: "1"}, {ID: "4", Type: "1"}, {ID: "5", Type: "1"},
	}, records)

	bonds, err := out.Bonds()
	require.NoError(t, err)
	assert.Equal(t, []molecule.Bond{
		{ID: "1", Type: "1", A: "1", B: "2"},
		{ID: "2", Type: "1", A: "1", B: "3"},
		{ID: "3", Type: "1", A: "1", B: "4"},
		{ID: "4", Type: "1", A: "1", B: "5"},
	}, bonds)
	assert.Equal(t, []string{"1", "1", "2", "1", "3"}, out.Rows(SectionAngles)[0].Fields)
	n, _ := out.Count("angles")
	assert.Equal(t, 3, n)
}

func TestWriteMolecule_NoAtoms(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMolecule(&buf, MoleculeSpec{Source: parse(t, "title\n\n0 atoms\n")})
	require.Error(t, err)
}

func TestWriteDataPartial(t *testing.T) {
	src := parse(t, testutil.MethaneData)
	keep := map[string]bool{"1": true, "2": true, "3": true}

	var buf bytes.Buffer
	require.NoError(t, WriteDataPartial(&buf, DataPartialSpec{
		Source:  src,
		Keep:    func(id string) bool { return keep[id] },
		Bonding: []string{"1"},
		Edges:   []molecule.EdgeAtom{{ID: "1", Fingerprint: "HH"}},
	}))

	out := parse(t, buf.String())
	anchors, err := out.Anchors()
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, anchors.Bonding)
	assert.Equal(t, []molecule.EdgeAtom{{ID: "1", Fingerprint: "HH"}}, anchors.Edges)

	for kind, want := range map[string]int{"atoms": 3, "bonds": 2, "angles": 1, "atom types": 2} {
		n, ok := out.Count(kind)
		assert.True(t, ok, kind)
		assert.Equal(t, want, n, kind)
	}
	assert.Equal(t, "# C", out.Rows(SectionMasses)[1].Comment)

	records, err := out.AtomRecords()
	require.NoError(t, err)
	assert.Len(t, records, 3)
	bonds, err := out.Bonds()
	require.NoError(t, err)
	assert.Equal(t, []molecule.Bond{{ID: "1", Type: "1", A: "1", B: "2"}, {ID: "2", Type: "1", A: "1", B: "3"}}, bonds)
}

func TestWriteMap(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, MapSpec{
		Pairs:   []mapping.Pair{{Pre: "1", Post: "1"}, {Pre: "2", Post: "3"}, {Pre: "3", Post: "2"}},
		Bonding: []string{"1", "2"},
		Delete:  []string{"3"},
		Edges:   []string{"2"},
	}))

	want := MapHeader + `

3 equivalences
1 deleteIDs
1 edgeIDs

BondingIDs

1
2

DeleteIDs

3

EdgeIDs

2

Equivalences

1	1
2	3
3	2
`
	assert.Equal(t, want, buf.String())
}

func TestWriteMap_NoOptionalSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, MapSpec{
		Pairs:   []mapping.Pair{{Pre: "1", Post: "1"}},
		Bonding: []string{"1"},
	}))

	out := buf.String()
	assert.NotContains(t, out, "deleteIDs")
	assert.NotContains(t, out, "EdgeIDs")
	assert.Contains(t, out, "1 equivalences\n")
}
