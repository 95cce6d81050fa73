package partial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/internal/testutil"
)

var chainAnchors = mapping.Anchors{PreBonding: []string{"1", "2"}, PostBonding: []string{"1", "2"}}

func TestAnalyze_ExtendsAroundTypeChange(t *testing.T) {
	pre := chain(t, molecule.Pre, chainTypes)
	post := chain(t, molecule.Post, retype(7))
	logger := testutil.NewMockLogger()

	tpl, err := NewAnalyzer(logger).Analyze(pre, post, identity(t, 12), chainAnchors)
	require.NoError(t, err)

	assert.True(t, tpl.Partial)
	assert.False(t, tpl.RingOpening)
	assert.Equal(t, []Extension{{Atom: "8", Radius: 2}}, tpl.Extensions)
	assert.Empty(t, tpl.Anomalies)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, tpl.PreAtoms.Values())
	assert.Equal(t, tpl.PreAtoms.Values(), tpl.PostAtoms.Values())
	assert.Equal(t, []string{"10"}, tpl.Edges)
	assert.Len(t, tpl.Pairs, 10)
	assert.Equal(t, []string{"1", "2"}, tpl.PreBonding)
	assert.Equal(t, []string{"1", "2"}, tpl.PostBonding)
	assert.True(t, logger.HasMessage("debug", "creating a partial map"))
}

func TestAnalyze_SecondExtensionIsAnomaly(t *testing.T) {
	pre := chain(t, molecule.Pre, chainTypes)
	post := chain(t, molecule.Post, retype(7, 11))
	logger := testutil.NewMockLogger()

	tpl, err := NewAnalyzer(logger).Analyze(pre, post, identity(t, 12), chainAnchors)
	require.NoError(t, err)

	assert.Equal(t, []string{"edge atom 10 still needs a 2-bond extension"}, tpl.Anomalies)
	assert.True(t, logger.Contains("warn", "still needs"))
	assert.Equal(t, []string{"10"}, tpl.Edges)
}

func TestAnalyze_RenumbersAnchors(t *testing.T) {
	// Same chain with the reacting pair moved to 7-8, so 3, 4, 5 and 12 are cut.
	pre := build(t, molecule.Pre, chainTypes, chainBonds, "7", "8")
	post := build(t, molecule.Post, chainTypes, chainBonds, "7", "8")
	anchors := mapping.Anchors{PreBonding: []string{"7", "8"}, PostBonding: []string{"7", "8"}}

	tpl, err := NewAnalyzer(nil).Analyze(pre, post, identity(t, 12), anchors)
	require.NoError(t, err)

	require.True(t, tpl.Partial)
	// Three shells around 7 and 8 reach 1, 2 and 11. They renumber to 1..8 in
	// natural order of the pre ids.
	assert.Equal(t, []string{"1", "2", "6", "7", "8", "9", "10", "11"}, tpl.PreAtoms.Values())
	assert.Equal(t, []string{"4", "5"}, tpl.PreBonding)
	assert.Equal(t, []string{"4", "5"}, tpl.PostBonding)
	assert.Equal(t, []string{"2", "8"}, tpl.Edges)
	assert.Equal(t, "3", tpl.PreTable["6"])
	assert.Equal(t, "8", tpl.PostTable["11"])
	assert.Empty(t, tpl.Extensions)
}

func TestAnalyze_FullStructure(t *testing.T) {
	methane := build(t, molecule.Pre, "2 1 1 1 1 2 1 1 1 1",
		"1-2 1-3 1-4 1-5 6-7 6-8 6-9 6-10", "1", "6")
	ethane := build(t, molecule.Post, "2 2 1 1 1 1 1 1 1 1",
		"1-2 2-3 2-4 2-5 1-6 1-7 1-8 9-10", "1", "2")
	ids := mapping.NewIDList()
	for _, p := range []mapping.Pair{
		{Pre: "1", Post: "1"}, {Pre: "6", Post: "2"}, {Pre: "2", Post: "8"}, {Pre: "3", Post: "7"}, {Pre: "4", Post: "6"},
		{Pre: "7", Post: "5"}, {Pre: "8", Post: "4"}, {Pre: "9", Post: "3"}, {Pre: "5", Post: "10"}, {Pre: "10", Post: "9"},
	} {
		require.NoError(t, ids.Add(p.Pre, p.Post))
	}
	anchors := mapping.Anchors{PreBonding: []string{"1", "6"}, PostBonding: []string{"1", "2"}}

	tpl, err := NewAnalyzer(nil).Analyze(methane, ethane, ids, anchors)
	require.NoError(t, err)

	assert.False(t, tpl.Partial)
	assert.Equal(t, ids.Sorted(), tpl.Pairs)
	assert.Equal(t, []string{"9", "10"}, tpl.Byproducts)
	assert.Empty(t, tpl.Edges)
	assert.Nil(t, tpl.PreTable)
}

func TestAnalyze_RingOpening(t *testing.T) {
	pre := ring(t, molecule.Pre, false)
	post := ring(t, molecule.Post, true)
	anchors := mapping.Anchors{PreBonding: []string{"1"}, PostBonding: []string{"1"}}

	tpl, err := NewAnalyzer(nil).Analyze(pre, post, identity(t, 8), anchors)
	require.NoError(t, err)

	assert.True(t, tpl.RingOpening)
	require.Len(t, tpl.Rings, 1)
	assert.Equal(t, []string{"2", "3", "4", "5", "6", "1"}, tpl.Rings[0].Path)
	assert.False(t, tpl.Partial)
}
