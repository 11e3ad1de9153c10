package dataset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/rows"
	"github.com/rshade/vtable/internal/sorter"
	"github.com/rshade/vtable/internal/state"
	"github.com/rshade/vtable/internal/table"
)

// Defaults for the row key and children fields.
const (
	DefaultKeyField      = "id"
	DefaultChildrenField = "children"
)

// Document errors.
var (
	ErrNoColumns   = errors.New("document declares no columns")
	ErrMissingKey  = errors.New("row has no key field")
	ErrBadChildren = errors.New("children field must be a list of rows")
)

// Row is one data row. Nested rows live under the document's children field.
type Row map[string]any

// ColumnSpec is the document form of a column declaration.
type ColumnSpec struct {
	Key         string  `yaml:"key"                    json:"key"`
	Title       string  `yaml:"title,omitempty"        json:"title,omitempty"`
	Width       float64 `yaml:"width,omitempty"        json:"width,omitempty"`
	MinWidth    float64 `yaml:"min_width,omitempty"    json:"min_width,omitempty"`
	MaxWidth    float64 `yaml:"max_width,omitempty"    json:"max_width,omitempty"`
	Align       string  `yaml:"align,omitempty"        json:"align,omitempty"`
	Fixed       string  `yaml:"fixed,omitempty"        json:"fixed,omitempty"`
	Sortable    bool    `yaml:"sortable,omitempty"     json:"sortable,omitempty"`
	Resizable   bool    `yaml:"resizable,omitempty"    json:"resizable,omitempty"`
	Hidden      bool    `yaml:"hidden,omitempty"       json:"hidden,omitempty"`
	DataKey     string  `yaml:"data_key,omitempty"     json:"data_key,omitempty"`
	Class       string  `yaml:"class,omitempty"        json:"class,omitempty"`
	HeaderClass string  `yaml:"header_class,omitempty" json:"header_class,omitempty"`
}

// Document is a parsed table document.
type Document struct {
	Title         string       `yaml:"title,omitempty"         json:"title,omitempty"`
	KeyField      string       `yaml:"key,omitempty"           json:"key,omitempty"`
	ChildrenField string       `yaml:"children,omitempty"      json:"children,omitempty"`
	ExpandColumn  string       `yaml:"expand_column,omitempty" json:"expand_column,omitempty"`
	Columns       []ColumnSpec `yaml:"columns"                 json:"columns"`
	Rows          []Row        `yaml:"rows"                    json:"rows"`
	FixedRows     []Row        `yaml:"fixed_rows,omitempty"    json:"fixed_rows,omitempty"`
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a YAML or JSON document and normalizes its rows.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if doc.KeyField == "" {
		doc.KeyField = DefaultKeyField
	}
	if doc.ChildrenField == "" {
		doc.ChildrenField = DefaultChildrenField
	}
	if len(doc.Columns) == 0 {
		return nil, ErrNoColumns
	}

	for i := range doc.Rows {
		if err := doc.normalize(doc.Rows[i]); err != nil {
			return nil, err
		}
	}
	for i := range doc.FixedRows {
		if err := doc.normalize(doc.FixedRows[i]); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// normalize checks the key of r and converts nested children to []Row.
func (d *Document) normalize(r Row) error {
	if _, ok := r[d.KeyField]; !ok {
		return fmt.Errorf("%w %q", ErrMissingKey, d.KeyField)
	}

	raw, ok := r[d.ChildrenField]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: row %v", ErrBadChildren, r[d.KeyField])
	}

	children := make([]Row, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: row %v", ErrBadChildren, r[d.KeyField])
		}
		child := Row(m)
		if err := d.normalize(child); err != nil {
			return err
		}
		children = append(children, child)
	}
	r[d.ChildrenField] = children
	return nil
}

// Declarations converts the column specs.
func (d *Document) Declarations() ([]column.Declaration, error) {
	out := make([]column.Declaration, 0, len(d.Columns))
	for _, c := range d.Columns {
		align, err := column.ParseAlignment(c.Align)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Key, err)
		}
		fixed, err := column.ParseFixedSide(c.Fixed)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Key, err)
		}

		dataKey := c.DataKey
		if dataKey == "" {
			dataKey = c.Key
		}
		out = append(out, column.Declaration{
			Key:         c.Key,
			Title:       c.Title,
			Width:       c.Width,
			MinWidth:    c.MinWidth,
			MaxWidth:    c.MaxWidth,
			Align:       align,
			Fixed:       fixed,
			Sortable:    c.Sortable,
			Resizable:   c.Resizable,
			Hidden:      c.Hidden,
			DataKey:     dataKey,
			Class:       c.Class,
			HeaderClass: c.HeaderClass,
		})
	}
	return out, nil
}

// KeyOf returns the key of a row as a string.
func (d *Document) KeyOf(r Row) string {
	v, ok := r[d.KeyField]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ChildrenOf returns the nested rows of r.
func (d *Document) ChildrenOf(r Row) []Row {
	children, _ := r[d.ChildrenField].([]Row)
	return children
}

// Source returns the document rows as an engine data source.
func (d *Document) Source() table.Source[Row] {
	return table.Source[Row]{
		Roots:      d.Rows,
		Fixed:      d.FixedRows,
		KeyOf:      d.KeyOf,
		ChildrenOf: d.ChildrenOf,
	}
}

// SortedSource returns the rows ordered by spec, every sibling group sorted
// independently. Fixed rows keep their order.
func (d *Document) SortedSource(cols []column.Column, spec state.SortSpec) table.Source[Row] {
	src := d.Source()
	if spec.Len() == 0 {
		return src
	}
	src.Roots = sorter.Sort(d.Rows, cols, spec)
	src.ChildrenOf = sorter.Children(rows.ChildrenFunc[Row](d.ChildrenOf), cols, spec)
	return src
}

// Flatten flattens the document rows with the given expansion set.
func (d *Document) Flatten(expanded rows.KeySet) (rows.Result[Row], error) {
	return rows.Flatten(d.Rows, expanded, d.KeyOf, d.ChildrenOf)
}

// ParentKeys returns the key of every row that has children.
func (d *Document) ParentKeys() rows.KeySet {
	return rows.ParentKeys(d.Rows, d.KeyOf, d.ChildrenOf)
}
