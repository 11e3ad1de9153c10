package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/vtable/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate configuration file",
		Long: `Validates a configuration file for syntax and semantic correctness.

Without FILE the effective configuration is validated. This includes:
- Schema version compatibility
- Non-negative overscan, debounce and reset threshold
- Positive row and header heights
- Known logging level and format`,
		Example: `  # Validate current configuration
  vtable config validate

  # Validate a specific file and show the effective settings
  vtable config validate ./vtable.yaml --verbose`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(cmd, args, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, args []string, verbose bool) error {
	cfg := config.GetGlobalConfig()
	if len(args) == 1 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	t := cfg.Table
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Version: %s\n", cfg.Version)
	cmd.Printf("  Row height: %s\n", formatNumber(t.RowHeight))
	if t.EstimatedRowHeight > 0 {
		cmd.Printf("  Estimated row height: %s (variable heights)\n", formatNumber(t.EstimatedRowHeight))
	}
	cmd.Printf("  Overscan rows: %d\n", t.OverscanRowCount)
	cmd.Printf("  Scroll debounce: %dms\n", t.ScrollDebounceMS)
	cmd.Printf("  Sort mode: %s\n", sortMode(t))
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
}

func sortMode(t config.TableConfig) string {
	mode := "multi"
	if t.SingleSortMode {
		mode = "single"
	}
	if t.SortCycleNone {
		mode += ", cycles through unsorted"
	}
	return mode
}

// NewConfigShowCmd creates the config show command printing the effective configuration.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Prints the configuration after the config file and VTABLE_* environment overrides are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(config.GetGlobalConfig()); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			return enc.Close()
		},
	}
}
