package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/layout"
)

func newLayoutCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Print the computed column layout of a document",
		Long: `Computes the pane layout of the document's columns for a container of the
given size and prints each column's offset and width, followed by the pane
widths and heights. Width and height default to the terminal size.`,
		Example: `  vtable layout testdata/tree.yaml
  vtable layout testdata/tree.yaml --width 120 --height 40`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, args[0], width, height)
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "container width in cells (default terminal width)")
	cmd.Flags().IntVar(&height, "height", 0, "container height in rows (default terminal height)")
	return cmd
}

func runLayout(cmd *cobra.Command, path string, width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("width and height must be >= 0, got %dx%d", width, height)
	}
	tw, th := terminalSize()
	if width == 0 {
		width = tw
	}
	if height == 0 {
		height = th
	}

	_, eng, err := openDocument(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer eng.Close()

	eng.SetSize(float64(width), float64(height))
	l := eng.Layout()

	out := cmd.OutOrStdout()
	renderColumns(out, eng.Columns(), l)
	renderSummary(out, l, width, height)
	return nil
}

// renderColumns prints one line per column, placeholders included, in
// display order.
func renderColumns(w io.Writer, cols []column.Column, l layout.Layout) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Key", "Title", "Pane", "Left", "Right", "Width", "Align"})
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, c := range cols {
		s := l.Styles[c.Key]
		title := c.HeaderTitle()
		if c.Placeholder {
			title = "(placeholder)"
		}
		t.Append([]string{
			c.Key,
			title,
			paneName(c.Fixed),
			formatNumber(s.Left),
			formatNumber(s.Right),
			formatNumber(s.Width),
			c.Align.String(),
		})
	}
	t.Render()
}

func renderSummary(w io.Writer, l layout.Layout, width, height int) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Measure", "Value"})
	t.SetAutoWrapText(false)
	t.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	t.AppendBulk([][]string{
		{"container", fmt.Sprintf("%dx%d", width, height)},
		{"total width", formatNumber(l.TotalWidth)},
		{"left pane", formatNumber(l.LeftWidth)},
		{"right pane", formatNumber(l.RightWidth)},
		{"body width", formatNumber(l.BodyWidth)},
		{"header width", formatNumber(l.HeaderWidth)},
		{"header height", formatNumber(l.HeaderHeight)},
		{"body height", formatNumber(l.BodyHeight)},
		{"max scroll x", formatNumber(l.MaxScrollX())},
	})
	t.Render()
}

func paneName(side column.FixedSide) string {
	if side == column.FixedNone {
		return "main"
	}
	return side.String()
}
