// Package sorter is a client-side data source that applies a sort
// specification to table rows.
//
// The table engine only maintains and publishes the sort specification;
// this package is the collaborator that actually orders the data. Sorting is
// stable, never modifies its input, and in tree datasets orders each sibling
// group independently so children stay under their parent.
package sorter
