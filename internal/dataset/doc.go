// Package dataset loads table documents: a column declaration list plus a
// (possibly tree shaped) list of rows, written as YAML or JSON.
//
// A document looks like:
//
//	title: Inventory
//	key: id
//	children: children
//	expand_column: name
//	columns:
//	  - key: name
//	    width: 200
//	    fixed: left
//	    sortable: true
//	rows:
//	  - id: a
//	    name: Widgets
//	    children:
//	      - id: a-1
//	        name: Blue widget
//
// JSON documents are accepted as well since the YAML decoder reads them.
package dataset
