package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/bondmap/internal/testutil"
	"github.com/turtacn/bondmap/pkg/errors"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre.data"), []byte(testutil.MethaneData), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.data"), []byte(testutil.EthaneData), 0o644))
	return dir
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "bondmap", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"map", "molecule", "partial", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "log-level", "output", "verbose", "no-color", "metrics-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
	assert.Equal(t, "o", cmd.PersistentFlags().Lookup("output").Shorthand)
}

func TestGetCLIContext_Missing(t *testing.T) {
	_, err := GetCLIContext(&cobra.Command{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bondmap "+Version)
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	_, _, err := execute(t, "version", "-o", "yaml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}

func TestRoot_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bondmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0o644))

	dir := fixtureDir(t)
	out, _, err := execute(t, "molecule", dir, "pre.data", "--save-name", "m.data", "--config", path)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 10, got["atoms"])
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"Pre", "Post"}, [][]string{{"1", "1"}, {"2", "8"}})
	assert.Contains(t, out, "Pre")
	assert.Contains(t, out, "Post")
	assert.Contains(t, out, "8")
	assert.Empty(t, FormatTable(nil, nil))
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetErr(&buf)

	PrintError(cmd, errors.InvalidParam("bad flag"))
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "bad flag")

	buf.Reset()
	PrintError(cmd, nil)
	assert.Empty(t, buf.String())
}
