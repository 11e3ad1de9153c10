// Package layout computes per-column geometry and pane sizes for a
// normalized column set.
//
// Compute is a pure function of its inputs. Memo wraps it with an LRU cache
// keyed by a fingerprint of the columns and sizing, so repeated frames with
// unchanged inputs reuse the previous result.
package layout
