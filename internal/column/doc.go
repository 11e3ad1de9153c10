// Package column normalizes table column declarations into a layout-ready,
// ordered column set.
//
// Declarations are split into left-fixed, main and right-fixed groups while
// preserving declaration order within each group. When any column is fixed,
// each non-empty fixed group receives a trailing placeholder column sized to
// the vertical scrollbar gutter so that fixed panes line up with the
// scrollable pane. Each column resolves its cell value through an Accessor,
// which is either a dotted path into the row or a getter function.
package column
