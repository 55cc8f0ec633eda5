package graph

import (
	"fmt"
	"strings"

	"github.com/facewire/facewire/pkg/registry"
)

// Source identifies the single output port a stream is read from: either a
// node output or a declared graph input.
type Source struct {
	node string // empty for graph inputs
	tag  string
	typ  string
}

// Node returns the producing node id, or empty for a graph input.
func (s Source) Node() string { return s.node }

// Tag returns the port tag.
func (s Source) Tag() string { return s.tag }

// Type returns the Go type name carried by the port.
func (s Source) Type() string { return s.typ }

// Ref renders the source as a plan reference ("graph:IMAGE" or "node_id:TAG").
func (s Source) Ref() string {
	if s.node == "" {
		return graphRef + refSep + s.tag
	}
	return s.node + refSep + s.tag
}

const (
	graphRef = "graph"
	refSep   = ":"
)

func parseRef(ref string) (node, tag string, err error) {
	before, after, found := strings.Cut(ref, refSep)
	if !found || before == "" || after == "" {
		return "", "", fmt.Errorf("malformed source reference %q", ref)
	}
	if before == graphRef {
		return "", after, nil
	}
	return before, after, nil
}

// Stream is an immutable, typed handle to one value-producing output port.
// A stream may feed any number of downstream input ports but is written by
// exactly one stage. It carries at most one value per tick and possibly
// none; suppression is expressed as an absent tick, not an error.
type Stream[T any] struct {
	g   *Graph
	src Source
}

// Source returns the port this stream reads from.
func (s Stream[T]) Source() Source { return s.src }

// Input declares a required graph input carrying T and returns its stream.
func Input[T any](g *Graph, tag string) Stream[T] {
	src := g.declareInput(tag, registry.TypeName[T](), false)
	return Stream[T]{g: g, src: src}
}

// OptionalInput declares a graph input that callers may leave unconnected.
// Stages reading it observe absent ticks; the Single-Region pipeline uses
// this for the whole-image default region.
func OptionalInput[T any](g *Graph, tag string) Stream[T] {
	src := g.declareInput(tag, registry.TypeName[T](), true)
	return Stream[T]{g: g, src: src}
}

// Bind connects a stream to an input port of a node. Each input port
// accepts exactly one binding; rebinding or type mismatches are recorded as
// build errors and surface at Finalize.
func Bind[T any](s Stream[T], n *Node, tag string) {
	if n == nil {
		return
	}
	g := n.g
	if s.g == nil {
		g.fail(n.id, tag, "binding an undeclared stream")
		return
	}
	if s.g != g {
		g.fail(n.id, tag, "stream belongs to a different graph")
		return
	}
	port, ok := n.spec.Input(tag)
	if !ok {
		if n.specOK {
			g.fail(n.id, tag, fmt.Sprintf("kind %q declares no such input", n.kind))
		}
		return
	}
	if _, bound := n.inputs[tag]; bound {
		g.fail(n.id, tag, "input port already bound")
		return
	}
	if port.Type != "" && s.src.typ != "" && port.Type != s.src.typ {
		g.fail(n.id, tag, fmt.Sprintf("type mismatch: port carries %s, stream carries %s", port.Type, s.src.typ))
		return
	}
	n.inputs[tag] = s.src
	n.inputOrder = append(n.inputOrder, tag)
}

// Out returns a typed stream reading the tagged output of a node. The
// requested type must agree with the node's declared port type; generic
// ports adopt the requested type.
func Out[T any](n *Node, tag string) Stream[T] {
	g := n.g
	typ := registry.TypeName[T]()
	port, ok := n.spec.Output(tag)
	switch {
	case !ok && n.specOK && !n.spec.OpenOutputs:
		g.fail(n.id, tag, fmt.Sprintf("kind %q declares no such output", n.kind))
	case ok && port.Type != "" && port.Type != typ:
		g.fail(n.id, tag, fmt.Sprintf("type mismatch: port carries %s, requested %s", port.Type, typ))
	}
	return Stream[T]{g: g, src: Source{node: n.id, tag: tag, typ: typ}}
}

// Output declares a graph output of the given tag, fed by s. Each output
// tag is declared once.
func Output[T any](g *Graph, tag string, s Stream[T]) {
	if s.g != nil && s.g != g {
		g.fail("", tag, "output stream belongs to a different graph")
		return
	}
	for _, out := range g.outputs {
		if out.Tag == tag {
			g.fail("", tag, "output already declared")
			return
		}
	}
	g.outputs = append(g.outputs, OutputDecl{
		Tag:  tag,
		Type: registry.TypeName[T](),
		From: s.src.Ref(),
	})
}
