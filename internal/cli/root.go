package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/vtable/internal/config"
	"github.com/rshade/vtable/internal/logging"
)

// Command annotations read by the persistent hooks.
const (
	// annotationTUI marks commands that take over the terminal; they log to a file.
	annotationTUI = "vtable/tui"
	// annotationNoConfig marks commands that must run even when --config does not exist yet.
	annotationNoConfig = "vtable/no-config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the vtable CLI.
// It loads configuration, wires up logging and registers the view, layout,
// flatten and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "vtable",
		Short:         "Virtualized table viewer",
		Long:          "vtable: browse, lay out and flatten large hierarchical tables",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $VTABLE_HOME/config.yaml)")
	cmd.AddCommand(newViewCmd(), newLayoutCmd(), newFlattenCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Browse a table document
  vtable view testdata/tree.yaml

  # Show the computed column layout for a 120 cell wide terminal
  vtable layout testdata/tree.yaml --width 120

  # Print the flattened rows with every group expanded, sorted by quantity
  vtable flatten testdata/tree.yaml --expand-all --sort qty:desc

  # Initialize configuration
  vtable config init`

// loadConfig installs the global configuration. An explicit --config file
// must exist and be valid; otherwise the default lookup is used.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" || cmd.Annotations[annotationNoConfig] != "" {
		config.InitGlobalConfig()
		return nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	config.SetGlobalConfig(cfg)
	return nil
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd(), NewConfigShowCmd())
	return cmd
}
