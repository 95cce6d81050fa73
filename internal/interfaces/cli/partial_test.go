package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialCmd(t *testing.T) {
	dir := fixtureDir(t)
	out, _, err := execute(t, "partial", dir, "pre.data",
		"--save-name", "pre_partial.data", "--ba", "1", "--ebt", "H,C", "--distance", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Kept 5 of 10 atoms")

	data, err := os.ReadFile(filepath.Join(dir, "pre_partial.data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Bonding_Atoms 1\n"))
}

func TestPartialCmd_RequiresBonding(t *testing.T) {
	dir := fixtureDir(t)
	_, _, err := execute(t, "partial", dir, "pre.data", "--save-name", "x.data", "--ebt", "H,C")
	assert.Error(t, err)
}

func TestMoleculeCmd(t *testing.T) {
	dir := fixtureDir(t)
	out, _, err := execute(t, "molecule", dir, "post.data", "--save-name", "ethane.mol")
	require.NoError(t, err)
	assert.Contains(t, out, "Converted 10 atoms")

	data, err := os.ReadFile(filepath.Join(dir, "ethane.mol"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n10 atoms\n8 bonds\n6 angles\n")
}
