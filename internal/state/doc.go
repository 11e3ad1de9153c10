// Package state owns the mutable interaction state of a table: scroll
// position and scrolling flag, the column resize session, the sort
// specification, the hovered row, the expansion set and the transient
// resetting flag.
//
// All transitions go through Machine methods and are expected to run on a
// single goroutine, one input event at a time. Notifications are delivered
// synchronously through Handlers.
package state
