package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depviz/pkg/depgraph"
)

// ReadJSON decodes a document from r and rebuilds its graph, keys in the
// order they appear in "nodes".
//
// ReadJSON returns an error if the JSON is malformed, the direction is
// unknown, a node has an empty or duplicate id, or the root is not one of
// the nodes of a non-empty document. It does not close r.
func ReadJSON(r io.Reader) (*Document, *depgraph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	switch doc.Direction {
	case DirectionForward, DirectionReverse:
	default:
		return nil, nil, fmt.Errorf("unknown direction %q", doc.Direction)
	}

	g := depgraph.NewGraph(doc.Root)
	for _, n := range doc.Nodes {
		if n.ID == "" {
			return nil, nil, fmt.Errorf("node with empty id")
		}
		if g.Has(n.ID) {
			return nil, nil, fmt.Errorf("node %s: duplicate id", n.ID)
		}
		g.Set(n.ID, n.Deps)
	}
	if len(doc.Nodes) > 0 && !g.Has(doc.Root) {
		return nil, nil, fmt.Errorf("root %q is not a node", doc.Root)
	}
	return &doc, g, nil
}

// ImportJSON reads a document from the JSON file at path.
func ImportJSON(path string) (*Document, *depgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
