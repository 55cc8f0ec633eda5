package graph

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/facewire/facewire/pkg/registry"
)

// Plan is the immutable, serializable description of a finalized graph. It
// is what the external executor consumes: a fully typed, acyclic wiring of
// stage instances with their build-time options.
type Plan struct {
	Name    string       `yaml:"name"`
	Inputs  []PortDecl   `yaml:"inputs,omitempty"`
	Outputs []OutputDecl `yaml:"outputs,omitempty"`
	Nodes   []NodePlan   `yaml:"nodes"`
}

// PortDecl declares a graph input.
type PortDecl struct {
	Tag      string `yaml:"tag"`
	Type     string `yaml:"type,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// OutputDecl declares a graph output and the port feeding it.
type OutputDecl struct {
	Tag  string `yaml:"tag"`
	Type string `yaml:"type,omitempty"`
	From string `yaml:"from"`
}

// NodePlan is one stage instance in a plan. Inputs map port tags to source
// references ("graph:IMAGE" or "node_id:TAG"). Graph carries the embedded
// plan for subgraph nodes.
type NodePlan struct {
	ID      string            `yaml:"id"`
	Kind    string            `yaml:"kind"`
	Options map[string]any    `yaml:"options,omitempty"`
	Inputs  map[string]string `yaml:"inputs,omitempty"`
	Graph   *Plan             `yaml:"graph,omitempty"`

	typed any
}

// TypedOptions returns the decoded options record, when available. It is
// populated by Finalize and by LoadPlan.
func (n NodePlan) TypedOptions() any { return n.typed }

// Node returns the node plan with the given id.
func (p *Plan) Node(id string) (NodePlan, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodePlan{}, false
}

// NodesOfKind returns all node plans of the given kind, in plan order.
func (p *Plan) NodesOfKind(kind string) []NodePlan {
	var out []NodePlan
	for _, n := range p.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Encode serializes the plan to YAML.
func (p *Plan) Encode() ([]byte, error) {
	return yaml.Marshal(p)
}

// LoadPlan parses a serialized plan, re-types node options against the
// registry, and re-runs structural validation.
func LoadPlan(data []byte, reg *registry.Registry) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	if err := p.decodeOptions(reg); err != nil {
		return nil, err
	}
	if err := p.Validate(reg); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) decodeOptions(reg *registry.Registry) error {
	for i := range p.Nodes {
		n := &p.Nodes[i]
		if n.Graph != nil {
			if err := n.Graph.decodeOptions(reg); err != nil {
				return err
			}
			continue
		}
		spec, ok := reg.Lookup(n.Kind)
		if !ok {
			continue // reported by Validate
		}
		typed, err := registry.DecodeOptions(spec, n.Options)
		if err != nil {
			return &AggregateError{Errors: []error{&BuildError{Node: n.ID, Reason: err.Error()}}}
		}
		n.typed = typed
	}
	return nil
}

// Validate checks the structural invariants an executor relies on: unique
// ids, known kinds, resolvable source references, one writer per input
// port (structural in this representation), type agreement where both port
// types are declared, required inputs bound, and acyclicity. Embedded
// subgraph plans are validated recursively.
func (p *Plan) Validate(reg *registry.Registry) error {
	var errs []error
	fail := func(node, port, reason string) {
		errs = append(errs, &BuildError{Node: node, Port: port, Reason: reason})
	}

	inputTypes := make(map[string]string, len(p.Inputs))
	for _, in := range p.Inputs {
		if _, dup := inputTypes[in.Tag]; dup {
			fail("", in.Tag, "duplicate graph input")
		}
		inputTypes[in.Tag] = in.Type
	}

	specs := make(map[string]registry.Spec, len(p.Nodes))
	for _, n := range p.Nodes {
		if _, dup := specs[n.ID]; dup {
			fail(n.ID, "", "duplicate node id")
			continue
		}
		switch {
		case n.Graph != nil:
			specs[n.ID] = registry.Spec{
				Kind:    n.Kind,
				Inputs:  portsFromDecls(n.Graph.Inputs),
				Outputs: outputPorts(n.Graph.Outputs),
			}
			if err := n.Graph.Validate(reg); err != nil {
				fail(n.ID, "", fmt.Sprintf("embedded graph %q: %v", n.Graph.Name, err))
			}
		default:
			spec, ok := reg.Lookup(n.Kind)
			if !ok {
				fail(n.ID, "", fmt.Sprintf("unknown stage kind %q", n.Kind))
				continue
			}
			specs[n.ID] = spec
		}
	}

	// resolve returns the type of a source reference, or reports an error.
	resolve := func(consumer, port, ref string) (string, bool) {
		srcNode, srcTag, err := parseRef(ref)
		if err != nil {
			fail(consumer, port, err.Error())
			return "", false
		}
		if srcNode == "" {
			typ, ok := inputTypes[srcTag]
			if !ok {
				fail(consumer, port, fmt.Sprintf("references undeclared graph input %q", srcTag))
				return "", false
			}
			return typ, true
		}
		spec, ok := specs[srcNode]
		if !ok {
			fail(consumer, port, fmt.Sprintf("references unknown node %q", srcNode))
			return "", false
		}
		out, ok := spec.Output(srcTag)
		if !ok {
			if spec.OpenOutputs {
				return "", true
			}
			fail(consumer, port, fmt.Sprintf("node %q declares no output %q", srcNode, srcTag))
			return "", false
		}
		return out.Type, true
	}

	for _, n := range p.Nodes {
		spec, ok := specs[n.ID]
		if !ok {
			continue
		}
		for tag, ref := range n.Inputs {
			port, ok := spec.Input(tag)
			if !ok {
				fail(n.ID, tag, fmt.Sprintf("kind %q declares no such input", n.Kind))
				continue
			}
			srcType, ok := resolve(n.ID, tag, ref)
			if !ok {
				continue
			}
			if port.Type != "" && srcType != "" && port.Type != srcType {
				fail(n.ID, tag, fmt.Sprintf("type mismatch: port carries %s, source carries %s", port.Type, srcType))
			}
		}
		for _, port := range spec.Inputs {
			if port.Optional {
				continue
			}
			if _, bound := n.Inputs[port.Tag]; !bound {
				fail(n.ID, port.Tag, "required input left unbound")
			}
		}
	}

	seen := make(map[string]bool, len(p.Outputs))
	for _, out := range p.Outputs {
		if seen[out.Tag] {
			fail("", out.Tag, "duplicate graph output")
			continue
		}
		seen[out.Tag] = true
		resolve("", out.Tag, out.From)
	}

	if cycle := findCycle(p); cycle != nil {
		fail("", "", fmt.Sprintf("dependency cycle: %v", cycle))
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// findCycle runs Kahn's algorithm over node-to-node edges and returns the
// ids left unscheduled, or nil if the plan is acyclic.
func findCycle(p *Plan) []string {
	indegree := make(map[string]int, len(p.Nodes))
	dependents := make(map[string][]string)
	for _, n := range p.Nodes {
		indegree[n.ID] += 0
		for _, ref := range n.Inputs {
			srcNode, _, err := parseRef(ref)
			if err != nil || srcNode == "" {
				continue
			}
			if _, known := indegree[srcNode]; !known {
				if !planHasNode(p, srcNode) {
					continue
				}
			}
			indegree[n.ID]++
			dependents[srcNode] = append(dependents[srcNode], n.ID)
		}
	}

	var ready []string
	for _, n := range p.Nodes {
		if indegree[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}
	scheduled := 0
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		scheduled++
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	if scheduled == len(p.Nodes) {
		return nil
	}
	var cycle []string
	for _, n := range p.Nodes {
		if indegree[n.ID] > 0 {
			cycle = append(cycle, n.ID)
		}
	}
	return cycle
}

func planHasNode(p *Plan, id string) bool {
	for _, n := range p.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
