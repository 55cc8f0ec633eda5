package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_EncodeLoadRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)
	g := NewWith("pipeline", reg)
	in := Input[float64](g, "VALUE")
	scale := g.AddNode("Scale").SetOptions(&scaleOptions{Factor: 3})
	Bind(in, scale, "IN")
	Output(g, "RESULT", Out[float64](scale, "OUT"))
	plan, err := g.Finalize()
	require.NoError(t, err)

	data, err := plan.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: Scale")
	assert.Contains(t, string(data), "factor: 3")

	loaded, err := LoadPlan(data, reg)
	require.NoError(t, err)
	assert.Equal(t, plan.Name, loaded.Name)
	require.Len(t, loaded.Nodes, 1)

	opts, ok := loaded.Nodes[0].TypedOptions().(*scaleOptions)
	require.True(t, ok, "options should be re-typed on load")
	assert.Equal(t, 3.0, opts.Factor)
}

func TestLoadPlan_MalformedYAML(t *testing.T) {
	_, err := LoadPlan([]byte(":\n  - not yaml"), newTestRegistry(t))
	require.Error(t, err)
}

func TestLoadPlan_UnknownOptionKey(t *testing.T) {
	doc := `
name: pipeline
inputs:
  - tag: VALUE
    type: float64
outputs:
  - tag: RESULT
    from: scale:OUT
nodes:
  - id: scale
    kind: Scale
    options:
      fact0r: 3
    inputs:
      IN: graph:VALUE
`
	_, err := LoadPlan([]byte(doc), newTestRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding options")
}

func TestPlanValidate_UnknownKind(t *testing.T) {
	p := &Plan{
		Name:    "p",
		Outputs: []OutputDecl{{Tag: "OUT", From: "mystery:OUT"}},
		Nodes:   []NodePlan{{ID: "mystery", Kind: "Mystery"}},
	}
	err := p.Validate(newTestRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown stage kind "Mystery"`)
}

func TestPlanValidate_DanglingReference(t *testing.T) {
	p := &Plan{
		Name:    "p",
		Outputs: []OutputDecl{{Tag: "OUT", From: "scale:OUT"}},
		Nodes: []NodePlan{{
			ID:     "scale",
			Kind:   "Scale",
			Inputs: map[string]string{"IN": "ghost:OUT"},
		}},
	}
	err := p.Validate(newTestRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `references unknown node "ghost"`)
}

func TestPlanValidate_UndeclaredGraphInput(t *testing.T) {
	p := &Plan{
		Name:    "p",
		Outputs: []OutputDecl{{Tag: "OUT", From: "scale:OUT"}},
		Nodes: []NodePlan{{
			ID:     "scale",
			Kind:   "Scale",
			Inputs: map[string]string{"IN": "graph:VALUE"},
		}},
	}
	err := p.Validate(newTestRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `references undeclared graph input "VALUE"`)
}

func TestPlanValidate_TypeMismatch(t *testing.T) {
	p := &Plan{
		Name:    "p",
		Inputs:  []PortDecl{{Tag: "NAME", Type: "string"}},
		Outputs: []OutputDecl{{Tag: "OUT", From: "scale:OUT"}},
		Nodes: []NodePlan{{
			ID:     "scale",
			Kind:   "Scale",
			Inputs: map[string]string{"IN": "graph:NAME"},
		}},
	}
	err := p.Validate(newTestRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
}

func TestPlanValidate_DuplicateNodeID(t *testing.T) {
	p := &Plan{
		Name:    "p",
		Inputs:  []PortDecl{{Tag: "VALUE", Type: "float64"}},
		Outputs: []OutputDecl{{Tag: "OUT", From: "scale:OUT"}},
		Nodes: []NodePlan{
			{ID: "scale", Kind: "Scale", Inputs: map[string]string{"IN": "graph:VALUE"}},
			{ID: "scale", Kind: "Scale", Inputs: map[string]string{"IN": "graph:VALUE"}},
		},
	}
	err := p.Validate(newTestRegistry(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node id")
}

func TestPlanValidate_Cycle(t *testing.T) {
	reg := newTestRegistry(t)
	p := &Plan{
		Name:    "loop",
		Outputs: []OutputDecl{{Tag: "OUT", From: "a:OUT"}},
		Nodes: []NodePlan{
			{ID: "a", Kind: "Scale", Inputs: map[string]string{"IN": "b:OUT"}},
			{ID: "b", Kind: "Scale", Inputs: map[string]string{"IN": "a:OUT"}},
		},
	}
	err := p.Validate(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle")
}

func TestPlan_NodeLookups(t *testing.T) {
	p := &Plan{Nodes: []NodePlan{
		{ID: "a", Kind: "Scale"},
		{ID: "b", Kind: "Combine"},
		{ID: "c", Kind: "Scale"},
	}}

	n, ok := p.Node("b")
	require.True(t, ok)
	assert.Equal(t, "Combine", n.Kind)

	_, ok = p.Node("missing")
	assert.False(t, ok)

	scales := p.NodesOfKind("Scale")
	require.Len(t, scales, 2)
	assert.Equal(t, "a", scales[0].ID)
	assert.Equal(t, "c", scales[1].ID)
}
