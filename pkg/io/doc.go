// Package io provides JSON import and export for dependency graphs.
//
// # JSON Format
//
// A document records one traversal: the root it started from, whether it
// walked dependencies ("forward") or dependents ("reverse"), and every
// visited package in visiting order with its list as recorded:
//
//	{
//	  "root": "app",
//	  "direction": "forward",
//	  "cycle": false,
//	  "nodes": [
//	    {"id": "app", "deps": ["lib-a", "lib-b"]},
//	    {"id": "lib-a", "deps": []},
//	    {"id": "lib-b", "deps": ["lib-a"]}
//	  ]
//	}
//
// For reverse documents "deps" holds the dependents of each package and
// "cycle" is omitted. Lists keep their order and duplicates, so a document
// read back with [ReadJSON] yields a graph equal to the one written.
//
// # Usage
//
//	err := io.ExportJSON(io.Forward(g, cycle), "deps.json")
//
//	doc, g, err := io.ImportJSON("deps.json")
//
// depviz serve answers with the same documents.
package io
