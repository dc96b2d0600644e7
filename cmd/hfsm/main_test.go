package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/pkg/dsl"
	"github.com/aretw0/hfsm/pkg/states"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLayer(t *testing.T, orphan bool) string {
	t.Helper()
	b := dsl.New("door").Bool("open", false)
	root := b.Root("Root").Default("Closed")
	root.Leaf("Closed", &states.Base{}).Go("Opened").Immediate().When("open", "==", true)
	root.Leaf("Opened", &states.Base{}).Go("Closed").Immediate().When("open", "==", false)
	if orphan {
		root.Leaf("Attic", &states.Base{})
	}
	layer, err := b.Build()
	require.NoError(t, err)

	data, err := hfsm.Encode(layer, hfsm.FormatYAML)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "door.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// execute runs the root command with args and returns its stdout. Flag
// values are reset afterwards because the command tree is global.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { resetFlags(rootCmd) })

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "hfsm version "+hfsm.Version+"\n", out)
}

func TestRunCommand(t *testing.T) {
	path := writeLayer(t, false)

	out, err := execute(t, "run", path, "--steps", "2", "--set", "open=true")
	require.NoError(t, err)
	assert.Equal(t, "Opened\n", out)
}

func TestRunCommand_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "run", writeLayer(t, false), "--steps", "1")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestValidateCommand(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		out, err := execute(t, "validate", writeLayer(t, false))
		require.NoError(t, err)
		assert.Contains(t, out, `Layer "door" is valid`)
	})

	t.Run("WarningsPass", func(t *testing.T) {
		out, err := execute(t, "validate", writeLayer(t, true))
		require.NoError(t, err)
		assert.Contains(t, out, "warning")
		assert.Contains(t, out, "Attic")
	})

	t.Run("Strict", func(t *testing.T) {
		_, err := execute(t, "validate", "--strict", writeLayer(t, true))
		assert.ErrorContains(t, err, "1 warnings")
	})
}

func TestGraphCommand(t *testing.T) {
	path := writeLayer(t, false)

	out, err := execute(t, "graph", path)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.NotContains(t, out, "classDef current")

	out, err = execute(t, "graph", path, "--active", "--set", "open=true")
	require.NoError(t, err)
	assert.Contains(t, out, "class n_Opened current")
}

func TestDescribeCommand(t *testing.T) {
	out, err := execute(t, "describe", "--markdown", writeLayer(t, false))
	require.NoError(t, err)
	assert.Contains(t, out, "## Root")
	assert.Contains(t, out, "**Closed**")
}

func TestExportCommand(t *testing.T) {
	path := writeLayer(t, false)
	target := filepath.Join(t.TempDir(), "door.hfsm")

	_, err := execute(t, "export", path, "--format", "binary", "-o", target)
	require.NoError(t, err)

	layer, err := hfsm.LoadLayer(target)
	require.NoError(t, err)
	assert.Equal(t, "door", layer.Name)
	assert.NotNil(t, layer.FindNode("Opened"))

	out, err := execute(t, "export", target, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"door"`)

	_, err = execute(t, "export", path, "--format", "toml")
	assert.ErrorContains(t, err, "unknown format")
}
