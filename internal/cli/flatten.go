package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/dataset"
	"github.com/rshade/vtable/internal/rows"
	"github.com/rshade/vtable/internal/sorter"
	"github.com/rshade/vtable/internal/table"
)

// Output formats supported by flatten.
const (
	outputTable = "table"
	outputYAML  = "yaml"
)

// flattenFlags holds the flatten command options.
type flattenFlags struct {
	expand    []string
	expandAll bool
	sort      string
	output    string
}

// flatRecord is the YAML form of one flattened row.
type flatRecord struct {
	Index       int            `yaml:"index"`
	Key         string         `yaml:"key"`
	Parent      string         `yaml:"parent,omitempty"`
	Depth       int            `yaml:"depth"`
	HasChildren bool           `yaml:"has_children,omitempty"`
	Expanded    bool           `yaml:"expanded,omitempty"`
	Values      map[string]any `yaml:"values,omitempty"`
}

func newFlattenCmd() *cobra.Command {
	var flags flattenFlags

	cmd := &cobra.Command{
		Use:   "flatten FILE",
		Short: "Print the flattened row sequence of a document",
		Long: `Flattens the document's row tree in display order: each row is followed by
its children when it is expanded. Rows are collapsed unless named with
--expand or --expand-all is given. --sort orders every sibling group.`,
		Example: `  vtable flatten testdata/tree.yaml
  vtable flatten testdata/tree.yaml --expand g0,g1
  vtable flatten testdata/tree.yaml --expand-all --sort qty:desc,name
  vtable flatten testdata/tree.yaml --expand-all --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlatten(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.expand, "expand", nil, "keys of rows to expand (comma-separated)")
	cmd.Flags().BoolVar(&flags.expandAll, "expand-all", false, "expand every row that has children")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "sort expression, e.g. qty:desc,name")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputTable, "output format: table or yaml")
	cmd.MarkFlagsMutuallyExclusive("expand", "expand-all")

	return cmd
}

func runFlatten(cmd *cobra.Command, path string, flags flattenFlags) error {
	if flags.output != outputTable && flags.output != outputYAML {
		return fmt.Errorf("unsupported output format %q (want %s or %s)", flags.output, outputTable, outputYAML)
	}

	ctx := cmd.Context()
	doc, eng, err := openDocument(ctx, path)
	if err != nil {
		return err
	}
	defer eng.Close()

	if flags.sort != "" {
		spec, err := sorter.ParseSortExpression(flags.sort, eng.Columns())
		if err != nil {
			return err
		}
		eng.SetSort(spec)
		if err := eng.SetData(doc.SortedSource(eng.Columns(), spec)); err != nil {
			return err
		}
	}

	expanded := rows.NewKeySet(flags.expand...)
	if flags.expandAll {
		expanded = eng.ExpandAllKeys()
	} else {
		parents := eng.ExpandAllKeys()
		for _, k := range expanded.Keys() {
			if !parents.Has(k) {
				logger.Warn().Ctx(ctx).Str("key", k).Msg("expand key has no children")
			}
		}
	}
	if err := eng.SetExpanded(expanded); err != nil {
		return err
	}

	cols := dataColumns(eng.Columns())
	out := cmd.OutOrStdout()
	if flags.output == outputYAML {
		return renderFlatYAML(out, eng, cols)
	}
	renderFlatTable(out, eng, cols)
	return nil
}

func dataColumns(cols []column.Column) []column.Column {
	out := make([]column.Column, 0, len(cols))
	for _, c := range cols {
		if !c.Placeholder {
			out = append(out, c)
		}
	}
	return out
}

func renderFlatTable(w io.Writer, eng *table.Engine[dataset.Row], cols []column.Column) {
	header := []string{"#", "Row"}
	align := []int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT}
	for _, c := range cols {
		header = append(header, c.HeaderTitle())
		align = append(align, tableAlign(c.Align))
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	t.SetColumnAlignment(align)

	expanded := eng.State().Expanded()
	for _, f := range eng.Rows().Rows {
		line := []string{strconv.Itoa(f.Index), treeLabel(f, expanded.Has(f.Key))}
		for _, c := range cols {
			line = append(line, formatValue(column.CellValue(c, f.Row, f.Index)))
		}
		t.Append(line)
	}
	t.SetFooter(footer(len(header), eng.RowCount()))
	t.Render()
}

func renderFlatYAML(w io.Writer, eng *table.Engine[dataset.Row], cols []column.Column) error {
	expanded := eng.State().Expanded()
	records := make([]flatRecord, 0, eng.RowCount())
	for _, f := range eng.Rows().Rows {
		rec := flatRecord{
			Index:       f.Index,
			Key:         f.Key,
			Parent:      f.ParentKey,
			Depth:       f.Depth,
			HasChildren: f.HasChildren,
			Expanded:    f.HasChildren && expanded.Has(f.Key),
			Values:      make(map[string]any, len(cols)),
		}
		for _, c := range cols {
			if v, ok := column.CellValue(c, f.Row, f.Index); ok {
				rec.Values[c.Key] = v
			}
		}
		records = append(records, rec)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding rows: %w", err)
	}
	return enc.Close()
}

// treeLabel indents key by depth and marks expandable rows.
func treeLabel(f rows.Flat[dataset.Row], expanded bool) string {
	marker := "  "
	if f.HasChildren {
		marker = "+ "
		if expanded {
			marker = "- "
		}
	}
	return strings.Repeat("  ", f.Depth) + marker + f.Key
}

func tableAlign(a column.Alignment) int {
	switch a {
	case column.AlignCenter:
		return tablewriter.ALIGN_CENTER
	case column.AlignEnd:
		return tablewriter.ALIGN_RIGHT
	default:
		return tablewriter.ALIGN_LEFT
	}
}

func footer(width, count int) []string {
	f := make([]string, width)
	f[0] = "rows"
	f[1] = strconv.Itoa(count)
	return f
}
