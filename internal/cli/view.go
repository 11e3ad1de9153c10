package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/vtable/internal/dataset"
	"github.com/rshade/vtable/internal/tui"
)

// errNotTerminal is returned by view when stdout cannot host the terminal UI.
var errNotTerminal = errors.New("view needs an interactive terminal; use 'vtable flatten' for plain output")

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Browse a table document interactively",
		Long: `Opens the document in a full-screen virtualized table.

Only the rows inside the viewport (plus the configured overscan) are rendered,
so documents with many thousands of rows scroll without delay. Columns marked
fixed stay pinned while the main pane scrolls horizontally.`,
		Example: `  vtable view testdata/tree.yaml
  vtable view rows.json --debug`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !writerIsTerminal(cmd.OutOrStdout()) {
				return errNotTerminal
			}
			return runView(cmd, args[0])
		},
	}
	return cmd
}

func runView(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()

	doc, err := dataset.Load(path)
	if err != nil {
		return err
	}

	m, err := tui.NewTableModel(ctx, doc, tableOptions(ctx))
	if err != nil {
		return err
	}
	defer m.Engine().Close()

	logger.Info().Ctx(ctx).Str("path", path).Int("rows", m.Engine().RowCount()).Msg("opening table view")
	return tui.Run(ctx, m)
}
