package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facewire/facewire/pkg/graph"
	"github.com/facewire/facewire/pkg/packet"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		value packet.Maybe[string]
		cond  packet.Maybe[bool]
		want  packet.Maybe[string]
	}{
		{"true passes value", packet.Some("v"), packet.Some(true), packet.Some("v")},
		{"false suppresses", packet.Some("v"), packet.Some(false), packet.None[string]()},
		{"absent condition suppresses", packet.Some("v"), packet.None[bool](), packet.None[string]()},
		{"absent value stays absent", packet.None[string](), packet.Some(true), packet.None[string]()},
		{"both absent", packet.None[string](), packet.None[bool](), packet.None[string]()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.value, tt.cond))
		})
	}
}

func TestProcess(t *testing.T) {
	out, err := process(nil, map[string]any{TagValue: 42, TagCondition: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{TagValue: 42}, out)

	out, err = process(nil, map[string]any{TagValue: 42, TagCondition: false})
	require.NoError(t, err)
	assert.Nil(t, out, "a false condition emits nothing, not an error")

	out, err = process(nil, map[string]any{TagValue: 42})
	require.NoError(t, err)
	assert.Nil(t, out, "an absent condition suppresses the value")

	out, err = process(nil, map[string]any{TagCondition: true})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestAllowIf_Wiring(t *testing.T) {
	g := graph.New("gated")
	value := graph.Input[float64](g, "VALUE")
	cond := graph.Input[bool](g, "COND")

	gated := AllowIf(g, value, cond)
	graph.Output(g, "OUT", gated)

	plan, err := g.Finalize()
	require.NoError(t, err)

	nodes := plan.NodesOfKind(Kind)
	require.Len(t, nodes, 1)
	assert.Equal(t, map[string]string{
		TagValue:     "graph:VALUE",
		TagCondition: "graph:COND",
	}, nodes[0].Inputs)
	assert.Equal(t, nodes[0].ID+":"+TagValue, plan.Outputs[0].From)
}

func TestAllowIf_ConditionMustBeBool(t *testing.T) {
	g := graph.New("gated")
	value := graph.Input[float64](g, "VALUE")
	notBool := graph.Input[float64](g, "SCORE")

	n := g.AddNode(Kind)
	graph.Bind(value, n, TagValue)
	graph.Bind(notBool, n, TagCondition)
	graph.Output(g, "OUT", graph.Out[float64](n, TagValue))

	_, err := g.Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
}
