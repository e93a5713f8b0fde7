// Package depgraph builds and analyses package dependency graphs.
//
// # Overview
//
// The package works on any [Adjacency]: something that returns the direct
// dependency list of a package. It never fails on incomplete data; a package
// the adjacency does not know is simply a leaf.
//
//	g, cycle := depgraph.Build("nginx", idx)
//	rev := depgraph.Reverse("pcre2", idx)
//
// # Forward Graphs
//
// [Build] performs an iterative depth-first walk from a root and returns a
// [Graph] holding only the packages it reached, in visiting order, together
// with a cycle flag. Diamonds are expanded once; back-edges to packages on
// the open path set the flag and are not followed.
//
// # Reverse Graphs
//
// [ReverseIndex] inverts an [Index] once and answers "who depends on X"
// queries. [ReverseIndex.Walk] follows those answers outward from a target
// and returns the result as a [Graph] whose edges point from a package to
// its dependents.
//
// # Analysis
//
// [Cycles] lists the strongly connected components of a graph, [Summarize]
// reports sizes and depth, and [BuildAll] builds several roots concurrently.
//
// # Concurrency
//
// All functions keep their traversal state local to the call. Concurrent
// calls over the same read-only adjacency are safe.
package depgraph
