package graph

import (
	"fmt"
	"strings"

	"github.com/facewire/facewire/pkg/registry"
)

// Graph is the write-once container of stages and stream bindings built up
// during pipeline construction. Errors encountered while building are
// accumulated and reported together by Finalize, which also runs the
// structural validation (dangling ports, double writers, cycles) and
// serializes the result into an immutable Plan.
type Graph struct {
	name    string
	reg     *registry.Registry
	nodes   []*Node
	byID    map[string]*Node
	idSeq   map[string]int
	inputs  []PortDecl
	outputs []OutputDecl
	errs    []error
}

// New creates a graph builder backed by the default stage registry.
func New(name string) *Graph {
	return NewWith(name, registry.Default)
}

// NewWith creates a graph builder backed by an explicit registry.
func NewWith(name string, reg *registry.Registry) *Graph {
	return &Graph{
		name:  name,
		reg:   reg,
		byID:  make(map[string]*Node),
		idSeq: make(map[string]int),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Registry returns the stage registry this graph resolves kinds against.
func (g *Graph) Registry() *registry.Registry { return g.reg }

// Node is a single stage instance: a registered kind, an immutable options
// record, and one binding per input port. Nodes belong to exactly one graph.
type Node struct {
	g          *Graph
	id         string
	kind       string
	spec       registry.Spec
	specOK     bool
	options    any
	inputs     map[string]Source
	inputOrder []string
	sub        *Plan
}

// ID returns the node's graph-unique id.
func (n *Node) ID() string { return n.id }

// Kind returns the registered stage kind.
func (n *Node) Kind() string { return n.kind }

// SetOptions attaches the build-time configuration record. Options are
// validated by their stage, not per tick.
func (n *Node) SetOptions(opts any) *Node {
	n.options = opts
	return n
}

// Options returns the configuration record attached to the node.
func (n *Node) Options() any { return n.options }

// AddNode adds a stage of a registered kind and returns it for wiring.
// Unknown kinds are recorded as build errors; the returned node is inert so
// construction code can proceed and report everything at Finalize.
func (g *Graph) AddNode(kind string) *Node {
	spec, ok := g.reg.Lookup(kind)
	n := &Node{
		g:      g,
		id:     g.freshID(snakeCase(kind)),
		kind:   kind,
		spec:   spec,
		specOK: ok,
		inputs: make(map[string]Source),
	}
	if !ok {
		g.fail(n.id, "", fmt.Sprintf("unknown stage kind %q", kind))
	}
	g.nodes = append(g.nodes, n)
	g.byID[n.id] = n
	return n
}

// AddSubgraph embeds a finalized plan as a single node, so an assembled
// pipeline can be reused as a stage. The node's ports are the plan's
// declared inputs and outputs.
func (g *Graph) AddSubgraph(p *Plan) *Node {
	spec := registry.Spec{
		Kind:    p.Name,
		Inputs:  portsFromDecls(p.Inputs),
		Outputs: outputPorts(p.Outputs),
	}
	n := &Node{
		g:      g,
		id:     g.freshID(snakeCase(p.Name)),
		kind:   p.Name,
		spec:   spec,
		specOK: true,
		inputs: make(map[string]Source),
		sub:    p,
	}
	g.nodes = append(g.nodes, n)
	g.byID[n.id] = n
	return n
}

func portsFromDecls(decls []PortDecl) []registry.Port {
	ports := make([]registry.Port, len(decls))
	for i, d := range decls {
		ports[i] = registry.Port{Tag: d.Tag, Type: d.Type, Optional: d.Optional}
	}
	return ports
}

func outputPorts(decls []OutputDecl) []registry.Port {
	ports := make([]registry.Port, len(decls))
	for i, d := range decls {
		ports[i] = registry.Port{Tag: d.Tag, Type: d.Type}
	}
	return ports
}

func (g *Graph) declareInput(tag, typ string, optional bool) Source {
	for _, in := range g.inputs {
		if in.Tag == tag {
			g.fail("", tag, "graph input already declared")
			return Source{tag: tag, typ: typ}
		}
	}
	g.inputs = append(g.inputs, PortDecl{Tag: tag, Type: typ, Optional: optional})
	return Source{tag: tag, typ: typ}
}

func (g *Graph) fail(node, port, reason string) {
	g.errs = append(g.errs, &BuildError{Node: node, Port: port, Reason: reason})
}

// freshID derives a readable, unique node id from a base name.
func (g *Graph) freshID(base string) string {
	if base == "" || base == graphRef {
		base = "node"
	}
	g.idSeq[base]++
	if n := g.idSeq[base]; n > 1 {
		return fmt.Sprintf("%s_%d", base, n)
	}
	return base
}

// Finalize validates the assembled graph and serializes it into a Plan.
// On any accumulated or structural error it returns an AggregateError and
// no plan.
func (g *Graph) Finalize() (*Plan, error) {
	errs := append([]error(nil), g.errs...)

	for _, n := range g.nodes {
		if !n.specOK {
			continue
		}
		for _, port := range n.spec.Inputs {
			if port.Optional {
				continue
			}
			if _, bound := n.inputs[port.Tag]; !bound {
				errs = append(errs, &BuildError{Node: n.id, Port: port.Tag, Reason: "required input left unbound"})
			}
		}
	}
	if len(g.outputs) == 0 {
		errs = append(errs, &BuildError{Reason: "graph declares no outputs"})
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}

	plan := &Plan{
		Name:    g.name,
		Inputs:  append([]PortDecl(nil), g.inputs...),
		Outputs: append([]OutputDecl(nil), g.outputs...),
		Nodes:   make([]NodePlan, 0, len(g.nodes)),
	}
	for _, n := range g.nodes {
		raw, err := registry.EncodeOptions(n.options)
		if err != nil {
			return nil, &AggregateError{Errors: []error{&BuildError{Node: n.id, Reason: err.Error()}}}
		}
		np := NodePlan{
			ID:      n.id,
			Kind:    n.kind,
			Options: raw,
			Graph:   n.sub,
			typed:   n.options,
		}
		if len(n.inputs) > 0 {
			np.Inputs = make(map[string]string, len(n.inputs))
			for _, tag := range n.inputOrder {
				np.Inputs[tag] = n.inputs[tag].Ref()
			}
		}
		plan.Nodes = append(plan.Nodes, np)
	}
	if err := plan.Validate(g.reg); err != nil {
		return nil, err
	}
	return plan, nil
}

// snakeCase converts a CamelCase kind name into a node id base
// ("AllowIf" -> "allow_if").
func snakeCase(kind string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range kind {
		switch {
		case r >= 'A' && r <= 'Z':
			if prevLower {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
			prevLower = false
		case r == '.' || r == '-' || r == '/' || r == ' ':
			sb.WriteByte('_')
			prevLower = false
		default:
			sb.WriteRune(r)
			prevLower = r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		}
	}
	return sb.String()
}
