// Package virtual computes which rows of a flattened sequence intersect the
// viewport for a given vertical scroll offset.
//
// Row heights come from a Heights implementation: FixedHeight answers every
// query in constant time, VariableHeight keeps a lazily extended prefix-sum
// table and binary searches it. The Driver adds overscan rows on both sides
// and only notifies listeners when the resulting range actually changes.
package virtual
