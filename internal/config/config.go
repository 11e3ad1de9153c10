// Package config loads vtable settings from YAML, applies environment
// overrides and converts them into engine and logger options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/vtable/internal/logging"
	"github.com/rshade/vtable/internal/table"
)

// CurrentVersion is the config schema version written by `vtable config init`.
const CurrentVersion = "1.0.0"

// supportedVersions is the schema range this build understands.
const supportedVersions = "^1.0.0"

// Environment variables consulted by ApplyEnv and GetConfigPath.
const (
	EnvConfig           = "VTABLE_CONFIG"
	EnvHome             = "VTABLE_HOME"
	EnvLogLevel         = "VTABLE_LOG_LEVEL"
	EnvOverscanRowCount = "VTABLE_OVERSCAN_ROW_COUNT"
	EnvScrollDebounceMS = "VTABLE_SCROLL_DEBOUNCE_MS"
)

// Terminal defaults: one cell per row and header line.
const (
	defaultRowHeight        = 1
	defaultHeaderHeight     = 1
	defaultGutterWidth      = 1
	defaultIndentSize       = 2
	defaultOverscanRowCount = 2
	defaultScrollDebounceMS = 150
	defaultMinColumnWidth   = 3
)

// Validation errors.
var (
	ErrInvalidVersion     = errors.New("invalid config version")
	ErrUnsupportedVersion = errors.New("unsupported config version")
	ErrInvalidValue       = errors.New("invalid config value")
)

// Config is the vtable configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Table   TableConfig   `yaml:"table"`
	Logging LoggingConfig `yaml:"logging"`
}

// TableConfig holds engine settings in terminal cells.
type TableConfig struct {
	OverscanRowCount   int       `yaml:"overscan_row_count"`
	ScrollDebounceMS   int       `yaml:"scroll_debounce_ms"`
	MinColumnWidth     float64   `yaml:"min_column_width"`
	SingleSortMode     bool      `yaml:"single_sort_mode"`
	SortCycleNone      bool      `yaml:"sort_cycle_none"`
	ResetThreshold     int       `yaml:"reset_threshold"`
	GutterWidth        float64   `yaml:"gutter_width"`
	IndentSize         float64   `yaml:"indent_size"`
	RowHeight          float64   `yaml:"row_height"`
	EstimatedRowHeight float64   `yaml:"estimated_row_height,omitempty"`
	HeaderHeights      []float64 `yaml:"header_heights"`
	FooterHeight       float64   `yaml:"footer_height,omitempty"`
	Fit                bool      `yaml:"fit,omitempty"`
	MemoSize           int       `yaml:"memo_size,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
	Caller bool   `yaml:"caller,omitempty"`
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Table: TableConfig{
			OverscanRowCount: defaultOverscanRowCount,
			ScrollDebounceMS: defaultScrollDebounceMS,
			MinColumnWidth:   defaultMinColumnWidth,
			SingleSortMode:   true,
			GutterWidth:      defaultGutterWidth,
			IndentSize:       defaultIndentSize,
			RowHeight:        defaultRowHeight,
			HeaderHeights:    []float64{defaultHeaderHeight},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// New returns the effective configuration: defaults, overlaid by the config
// file when one exists, then environment overrides. A broken config file is
// logged and skipped.
func New() *Config {
	cfg := Default()

	if path, err := GetConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
				logger := GetLogger()
				logger.Warn().Err(mergeErr).Str("path", path).Msg("ignoring config file")
				cfg = Default()
			}
		}
	}

	cfg.ApplyEnv()
	return cfg
}

// Load reads the config file at path on top of the defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes cfg as YAML to path, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies VTABLE_* environment overrides. Unparseable values are
// ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOverscanRowCount); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Table.OverscanRowCount = n
		}
	}
	if v := os.Getenv(EnvScrollDebounceMS); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Table.ScrollDebounceMS = n
		}
	}
}

// Validate checks the schema version and value ranges.
func (c *Config) Validate() error {
	if err := checkVersion(c.Version); err != nil {
		return err
	}

	t := c.Table
	switch {
	case t.OverscanRowCount < 0:
		return fmt.Errorf("%w: overscan_row_count must be >= 0, got %d", ErrInvalidValue, t.OverscanRowCount)
	case t.ScrollDebounceMS < 0:
		return fmt.Errorf("%w: scroll_debounce_ms must be >= 0, got %d", ErrInvalidValue, t.ScrollDebounceMS)
	case t.ResetThreshold < 0:
		return fmt.Errorf("%w: reset_threshold must be >= 0, got %d", ErrInvalidValue, t.ResetThreshold)
	case t.RowHeight <= 0 && t.EstimatedRowHeight <= 0:
		return fmt.Errorf("%w: row_height must be > 0", ErrInvalidValue)
	case t.MinColumnWidth < 0 || t.GutterWidth < 0 || t.IndentSize < 0 || t.FooterHeight < 0:
		return fmt.Errorf("%w: widths and heights must be >= 0", ErrInvalidValue)
	}
	for i, h := range t.HeaderHeights {
		if h <= 0 {
			return fmt.Errorf("%w: header_heights[%d] must be > 0", ErrInvalidValue, i)
		}
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level %q", ErrInvalidValue, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", logging.FormatJSON, logging.FormatConsole, logging.FormatText:
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidValue, c.Logging.Format)
	}
	return nil
}

func checkVersion(v string) error {
	if v == "" {
		v = CurrentVersion
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidVersion, v, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !constraint.Check(ver) {
		return fmt.Errorf("%w %s (supported: %s)", ErrUnsupportedVersion, ver, supportedVersions)
	}
	return nil
}

// ToOptions converts the table section into engine options.
func (t TableConfig) ToOptions() table.Options {
	opts := table.DefaultOptions()
	opts.OverscanRowCount = t.OverscanRowCount
	opts.ScrollDebounce = time.Duration(t.ScrollDebounceMS) * time.Millisecond
	opts.MinColumnWidth = t.MinColumnWidth
	opts.SingleSortMode = t.SingleSortMode
	opts.SortCycleNone = t.SortCycleNone
	opts.ResetThreshold = t.ResetThreshold
	opts.GutterWidth = t.GutterWidth
	opts.IndentSize = t.IndentSize
	opts.RowHeight = t.RowHeight
	opts.EstimatedRowHeight = t.EstimatedRowHeight
	opts.FooterHeight = t.FooterHeight
	opts.Fit = t.Fit
	if len(t.HeaderHeights) > 0 {
		opts.HeaderHeights = append([]float64(nil), t.HeaderHeights...)
	}
	if t.MemoSize > 0 {
		opts.MemoSize = t.MemoSize
	}
	return opts
}
