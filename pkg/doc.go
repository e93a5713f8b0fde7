// Package pkg is the root of the depviz library packages.
//
// The packages build on each other from the engine outwards:
//
//   - [depgraph]: forward traversal with cycle detection, reverse indexing,
//     cycle components and concurrent multi-root builds
//   - [render/text] and [render/nodelink]: edge listing, ASCII tree and DOT
//   - [repo]: package indexes from test fixtures, APKINDEX files and mirrors
//   - [cache]: file, Redis and no-op byte caches for downloads and images
//   - [io]: JSON export and import of traversal results
//   - [config], [errors], [observability], [buildinfo]: ambient support
//
// A typical run loads an index, builds a graph and renders it:
//
//	idx, err := repo.NewLoader(nil, repo.APKOptions{}).Load(ctx, repo.ModeTest, "repo.txt")
//	if err != nil {
//	    return err
//	}
//	g, cycle := depgraph.Build("bash", idx)
//	fmt.Print(text.EdgeList(g))
//	fmt.Println("cycle:", cycle)
//
// [depgraph]: github.com/matzehuels/depviz/pkg/depgraph
// [render/text]: github.com/matzehuels/depviz/pkg/render/text
// [render/nodelink]: github.com/matzehuels/depviz/pkg/render/nodelink
// [repo]: github.com/matzehuels/depviz/pkg/repo
// [cache]: github.com/matzehuels/depviz/pkg/cache
// [io]: github.com/matzehuels/depviz/pkg/io
// [config]: github.com/matzehuels/depviz/pkg/config
// [errors]: github.com/matzehuels/depviz/pkg/errors
// [observability]: github.com/matzehuels/depviz/pkg/observability
// [buildinfo]: github.com/matzehuels/depviz/pkg/buildinfo
package pkg
