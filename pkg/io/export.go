package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depviz/pkg/depgraph"
)

// Directions of a [Document].
const (
	DirectionForward = "forward"
	DirectionReverse = "reverse"
)

// Document is the JSON form of a traversal result.
type Document struct {
	Root      string `json:"root"`
	Direction string `json:"direction"`
	Cycle     *bool  `json:"cycle,omitempty"`
	Nodes     []Node `json:"nodes"`
}

// Node is one visited package and its recorded list.
type Node struct {
	ID   string   `json:"id"`
	Deps []string `json:"deps"`
}

// Forward wraps a forward graph and its cycle flag.
func Forward(g *depgraph.Graph, cycle bool) *Document {
	doc := newDocument(g, DirectionForward)
	doc.Cycle = &cycle
	return doc
}

// Reverse wraps a reverse graph.
func Reverse(g *depgraph.Graph) *Document {
	return newDocument(g, DirectionReverse)
}

func newDocument(g *depgraph.Graph, direction string) *Document {
	doc := &Document{
		Root:      g.Root,
		Direction: direction,
		Nodes:     make([]Node, 0, g.Len()),
	}
	for _, id := range g.Nodes() {
		deps := append([]string{}, g.Deps(id)...)
		doc.Nodes = append(doc.Nodes, Node{ID: id, Deps: deps})
	}
	return doc
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
