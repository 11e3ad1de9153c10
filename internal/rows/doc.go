// Package rows flattens hierarchical datasets into the ordered row sequence
// that the virtualization driver works on.
//
// Expansion is tracked as a set of row keys rather than as a flag on each
// record, so records may be replaced between renders without losing state.
// A row's children appear in the flattened sequence only when every ancestor
// on the path to the root is expanded.
package rows
