// Package text renders dependency graphs as plain text for terminals.
//
// [EdgeList] prints one line per package with its direct dependencies.
// [Tree] prints an indented tree from the root using box-drawing
// connectors. Both are pure functions of the graph and produce the same
// output for the same input.
package text
