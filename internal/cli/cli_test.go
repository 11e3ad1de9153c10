package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/vtable/internal/cli"
	"github.com/rshade/vtable/internal/config"
	"github.com/rshade/vtable/internal/sorter"
)

const treeDoc = "testdata/tree.yaml"

// setupCLITest isolates the config directory and quiets logging. It returns
// the config directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// execute runs the root command with args and returns the combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetGlobalConfigForTest()

	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

type flatRow struct {
	Key         string         `yaml:"key"`
	Parent      string         `yaml:"parent"`
	Depth       int            `yaml:"depth"`
	HasChildren bool           `yaml:"has_children"`
	Expanded    bool           `yaml:"expanded"`
	Values      map[string]any `yaml:"values"`
}

func flattenYAML(t *testing.T, args ...string) []flatRow {
	t.Helper()
	out, err := execute(t, append([]string{"flatten", treeDoc, "-o", "yaml"}, args...)...)
	require.NoError(t, err, out)

	var recs []flatRow
	require.NoError(t, yaml.Unmarshal([]byte(out), &recs))
	return recs
}

func keysOf(recs []flatRow) []string {
	keys := make([]string, len(recs))
	for i, r := range recs {
		keys[i] = r.Key
	}
	return keys
}

func TestRootCommand(t *testing.T) {
	setupCLITest(t)

	root := cli.NewRootCmd("1.2.3")
	assert.Equal(t, "vtable", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"view", "layout", "flatten", "config"})
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestFlatten_CollapsedByDefault(t *testing.T) {
	setupCLITest(t)

	recs := flattenYAML(t)
	if diff := cmp.Diff([]string{"g0", "r1", "r2"}, keysOf(recs)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, recs[0].HasChildren)
	assert.False(t, recs[0].Expanded)
	assert.Equal(t, "Group zero", recs[0].Values["name"])
}

func TestFlatten_ExpandKeys(t *testing.T) {
	setupCLITest(t)

	recs := flattenYAML(t, "--expand", "g0")
	if diff := cmp.Diff([]string{"g0", "c1", "c2", "r1", "r2"}, keysOf(recs)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, recs[0].Expanded)
	assert.Equal(t, "g0", recs[1].Parent)
	assert.Equal(t, 1, recs[1].Depth)
}

func TestFlatten_ExpandAllSorted(t *testing.T) {
	setupCLITest(t)

	recs := flattenYAML(t, "--expand-all", "--sort", "qty:desc")
	if diff := cmp.Diff([]string{"r1", "g0", "c2", "c1", "r2"}, keysOf(recs)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_Table(t *testing.T) {
	setupCLITest(t)

	collapsed, err := execute(t, "flatten", treeDoc)
	require.NoError(t, err)
	assert.Contains(t, collapsed, "+ g0")

	out, err := execute(t, "flatten", treeDoc, "--expand", "g0")
	require.NoError(t, err)
	assert.Contains(t, out, "- g0")
	assert.Contains(t, out, "    c1")
	assert.NotContains(t, out, "+ g0")
	assert.Contains(t, out, "Child two")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "rows")
}

func TestFlatten_Errors(t *testing.T) {
	setupCLITest(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown sort key", args: []string{"--sort", "region"}, wantErr: sorter.ErrUnknownSortKey.Error()},
		{name: "bad output", args: []string{"-o", "csv"}, wantErr: "unsupported output format"},
		{name: "exclusive expand flags", args: []string{"--expand", "g0", "--expand-all"}, wantErr: "none of the others"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"flatten", treeDoc}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := execute(t, "flatten", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLayout(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "layout", treeDoc, "--width", "100", "--height", "20")
	require.NoError(t, err)

	for _, want := range []string{"id", "name", "qty", "region", "left", "right", "main", "100x20", "BODY WIDTH"} {
		assert.Contains(t, strings.ToUpper(out), strings.ToUpper(want))
	}

	_, err = execute(t, "layout", treeDoc, "--width", "-1")
	require.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	home := setupCLITest(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")

	path := filepath.Join(home, "config.yaml")
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	_, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Table, cfg.Table)
}

func TestConfigInit_ExplicitPath(t *testing.T) {
	setupCLITest(t)

	path := filepath.Join(t.TempDir(), "nested", "vtable.yaml")
	_, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "config", "validate", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Sort mode: single")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: 2.0.0\n"), 0o600))
	_, err = execute(t, "config", "validate", bad)
	require.Error(t, err)
	require.ErrorIs(t, err, config.ErrUnsupportedVersion)

	negative := filepath.Join(t.TempDir(), "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("table:\n  overscan_row_count: -1\n  row_height: 1\n"), 0o600))
	_, err = execute(t, "config", "validate", negative)
	require.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestConfigFlag_RejectsInvalidFile(t *testing.T) {
	setupCLITest(t)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: not-a-version\n"), 0o600))

	_, err := execute(t, "--config", bad, "layout", treeDoc, "--width", "80")
	require.ErrorIs(t, err, config.ErrInvalidVersion)
}

func TestConfigShow_AppliesEnv(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvOverscanRowCount, "9")

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "overscan_row_count: 9")
	assert.Contains(t, out, "version: 1.0.0")
}

func TestView_RequiresTerminal(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "view", treeDoc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")

	_, err = execute(t, "view")
	require.Error(t, err)
}
