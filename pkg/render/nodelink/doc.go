// Package nodelink renders dependency graphs as node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a [depgraph.Graph] into Graphviz DOT text: one declaration
// per package and one arrow per dependency, both sorted so that the text is
// byte-identical across runs. The text is always written to a side file
// next to the requested image (see [DOTPath]) so users keep a usable
// artifact even when no renderer is installed.
//
// # Rendering
//
// A [Renderer] converts the DOT file into an image:
//
//   - [ExecRenderer] runs the Graphviz dot command (every format)
//   - [GraphvizRenderer] renders in-process via [github.com/goccy/go-graphviz]
//     (svg, png, jpg)
//
// [Writer] ties both together and optionally caches rendered images keyed by
// the [Digest] of the DOT text:
//
//	w := &nodelink.Writer{Renderer: nodelink.ExecRenderer{}}
//	out, err := w.Write(ctx, nodelink.ToDOT(g, nodelink.Options{}), "graph.png")
//	if out.RenderErr != nil {
//	    // dot missing or failed; graph.dot is still there
//	}
package nodelink
