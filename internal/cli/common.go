package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/rshade/vtable/internal/config"
	"github.com/rshade/vtable/internal/dataset"
	"github.com/rshade/vtable/internal/logging"
	"github.com/rshade/vtable/internal/table"
)

// Fallback terminal size when stdout is not a terminal.
const (
	defaultTermWidth  = 80
	defaultTermHeight = 24
)

// tableOptions returns the engine options of the global configuration,
// logging through the logger carried by ctx.
func tableOptions(ctx context.Context) table.Options {
	opts := config.GetGlobalConfig().Table.ToOptions()
	opts.Logger = logging.ComponentLogger(*logging.FromContext(ctx), "table")
	return opts
}

// openDocument loads the table document at path and builds an engine over it.
func openDocument(ctx context.Context, path string) (*dataset.Document, *table.Engine[dataset.Row], error) {
	doc, err := dataset.Load(path)
	if err != nil {
		return nil, nil, err
	}
	decls, err := doc.Declarations()
	if err != nil {
		return nil, nil, err
	}

	opts := tableOptions(ctx)
	if opts.ExpandColumnKey == "" {
		opts.ExpandColumnKey = doc.ExpandColumn
	}
	eng, err := table.New(opts, decls, doc.Source())
	if err != nil {
		return nil, nil, fmt.Errorf("building table for %s: %w", path, err)
	}

	logger.Debug().Ctx(ctx).
		Str("path", path).
		Int("rows", eng.RowCount()).
		Int("columns", len(eng.Columns())).
		Msg("document loaded")
	return doc, eng, nil
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (width, height int) {
	if !isTerminal(os.Stdout) {
		return defaultTermWidth, defaultTermHeight
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultTermWidth, defaultTermHeight
	}
	return w, h
}

// writerIsTerminal reports whether w is a terminal file.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// formatValue renders a cell value as plain text. Missing values render empty.
func formatValue(value any, ok bool) string {
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// formatNumber renders a layout measurement.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
