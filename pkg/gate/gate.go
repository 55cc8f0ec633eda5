// Package gate provides the conditional-suppression combinator: a value
// stream passes through only on ticks where a companion boolean stream
// carries true. Suppression is an absent tick, not an error; downstream
// stages that see an absent input simply do not run for that tick, so the
// suppression cascades without explicit branching in every stage.
package gate

import (
	"github.com/facewire/facewire/pkg/graph"
	"github.com/facewire/facewire/pkg/packet"
	"github.com/facewire/facewire/pkg/registry"
)

// Kind is the registered stage kind inserted by AllowIf.
const Kind = "AllowIf"

// Port tags of the AllowIf stage.
const (
	TagValue     = "VALUE"
	TagCondition = "CONDITION"
)

// AllowIf gates value by cond: the returned stream carries value's tick
// when cond carries true, and nothing otherwise.
func AllowIf[T any](g *graph.Graph, value graph.Stream[T], cond graph.Stream[bool]) graph.Stream[T] {
	n := g.AddNode(Kind)
	graph.Bind(value, n, TagValue)
	graph.Bind(cond, n, TagCondition)
	return graph.Out[T](n, TagValue)
}

// Apply is the per-tick semantics of the gate: propagate Some iff the
// condition is Some(true). A false or absent condition suppresses the value.
func Apply[T any](value packet.Maybe[T], cond packet.Maybe[bool]) packet.Maybe[T] {
	if allow, ok := cond.Get(); !ok || !allow {
		return packet.None[T]()
	}
	return value
}

func process(_ any, in map[string]any) (map[string]any, error) {
	allow, ok := in[TagCondition].(bool)
	if !ok || !allow {
		return nil, nil
	}
	v, ok := in[TagValue]
	if !ok {
		return nil, nil
	}
	return map[string]any{TagValue: v}, nil
}

func init() {
	registry.Default.MustRegister(registry.Spec{
		Kind: Kind,
		Inputs: []registry.Port{
			{Tag: TagValue},
			{Tag: TagCondition, Type: registry.TypeName[bool]()},
		},
		Outputs: []registry.Port{
			{Tag: TagValue},
		},
		Process: process,
	})
}
