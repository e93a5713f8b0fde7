// Package repo loads package repositories into adjacency indexes that the
// graph engine can walk.
//
// Three modes are supported, matching the --mode flag:
//
//   - test: a line-oriented fixture file, one "package: dep1 dep2" per line
//     (see [ParseFixture])
//   - offline: a local Alpine APKINDEX, either the plain text file or the
//     APKINDEX.tar.gz archive (see [ParseAPKIndex] and [ReadArchive])
//   - online: the same archive downloaded from a mirror over HTTP with
//     caching and retries (see [Fetcher])
//
// [Loader] dispatches on the mode and memoizes parsed indexes so repeated
// queries against one repository (depviz serve, depviz batch) parse once.
package repo
