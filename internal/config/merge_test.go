package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vtable/internal/config"
)

// newDefaultTarget returns a config whose every section differs from the
// zero value.
func newDefaultTarget() *config.Config {
	return &config.Config{
		Version: "1.0.0",
		Table: config.TableConfig{
			OverscanRowCount: 4,
			ScrollDebounceMS: 200,
			RowHeight:        1,
			HeaderHeights:    []float64{1, 1},
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// writeOverlay writes content to a temporary overlay file.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
logging:
  level: debug
  format: json
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	// Logging should be replaced.
	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, "json", target.Logging.Format)

	// Other sections should be unchanged.
	assert.Equal(t, 4, target.Table.OverscanRowCount)
	assert.Equal(t, "1.0.0", target.Version)
}

func TestShallowMergeYAML_SectionReplacedNotMerged(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
table:
  row_height: 2
  header_heights: [3]
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, target.Table.RowHeight, 0.001)
	assert.Equal(t, []float64{3}, target.Table.HeaderHeights, "slice replaced, not appended")
	assert.Zero(t, target.Table.OverscanRowCount, "whole section replaced")
	assert.Zero(t, target.Table.ScrollDebounceMS)
}

func TestShallowMergeYAML_Version(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, "version: 1.2.0\n")

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "1.2.0", target.Version)
	assert.Equal(t, "info", target.Logging.Level)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
theme: dark
logging:
  level: warn
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "warn", target.Logging.Level)
}

func TestShallowMergeYAML_NothingToMerge(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "comments only", content: "# vtable config\n# nothing set yet\n"},
		{name: "null document", content: "~\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newDefaultTarget()
			require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, tt.content)))
			assert.Equal(t, newDefaultTarget(), target)
		})
	}
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{name: "malformed", content: "{{{{not yaml", want: "parsing overlay YAML"},
		{name: "root is a list", content: "- table\n- logging\n", wantErr: config.ErrNotMapping},
		{name: "section of wrong type", content: "table: [1, 2]\n", want: `applying overlay section "table"`},
		{name: "version not a string", content: "version: {major: 1}\n", want: `applying overlay section "version"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newDefaultTarget()
			err := config.ShallowMergeYAML(target, writeOverlay(t, tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestShallowMergeYAML_MissingFile(t *testing.T) {
	err := config.ShallowMergeYAML(newDefaultTarget(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShallowMergeYAML_NilTarget(t *testing.T) {
	err := config.ShallowMergeYAML(nil, "unused.yaml")
	require.ErrorIs(t, err, config.ErrNilTarget)
}
