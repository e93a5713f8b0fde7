// Package render groups the output formats of depviz.
//
// Every renderer takes a [depgraph.Graph] and is a pure function of it:
//
//   - [text]: the edge listing and the ASCII tree printed to stdout
//   - [nodelink]: Graphviz DOT text, plus backends that turn it into an image
//
// Rendering an image is the only step with external dependencies. Its
// failure never invalidates the DOT file, which is always written first.
//
// [depgraph.Graph]: github.com/matzehuels/depviz/pkg/depgraph.Graph
// [text]: github.com/matzehuels/depviz/pkg/render/text
// [nodelink]: github.com/matzehuels/depviz/pkg/render/nodelink
package render
