// Package batch provides the dynamic-length batch-map combinator: it
// decomposes a list-valued stream into one tick per element (plus a
// replicated companion stream and an end-of-batch marker), lets a
// sub-pipeline process each element, and recomposes any number of per-item
// result streams back into list-valued streams whose order matches the
// input list.
//
// Every End collector keys off the same marker stream, so the recomposed
// lists stay index-aligned even though each output channel is collected by
// its own independent collector.
package batch

import (
	"github.com/facewire/facewire/pkg/graph"
	"github.com/facewire/facewire/pkg/registry"
)

// Stage kinds inserted by Begin and End.
const (
	BeginKind = "BeginItemLoop"
	EndKind   = "EndItemLoop"
)

// Port tags of the loop stages.
const (
	TagIterable = "ITERABLE"
	TagClone    = "CLONE"
	TagItem     = "ITEM"
	TagBatchEnd = "BATCH_END"
)

// Marker is the end-of-batch signal. It carries the number of item ticks
// emitted for the batch, which is what lets collectors emit lists of the
// right length even when some item ticks were suppressed.
type Marker struct {
	Size int
}

// Begin decomposes items into per-element ticks. For each element of the
// list, in order, the returned item stream carries the element and the
// clone stream carries a copy of companion; after the last element the
// marker stream carries one Marker tick. An empty input list produces an
// immediate marker with Size 0 and no item ticks.
func Begin[C, R any](g *graph.Graph, items graph.Stream[[]R], companion graph.Stream[C]) (item graph.Stream[R], clone graph.Stream[C], end graph.Stream[Marker]) {
	n := g.AddNode(BeginKind)
	graph.Bind(items, n, TagIterable)
	graph.Bind(companion, n, TagClone)
	return graph.Out[R](n, TagItem), graph.Out[C](n, TagClone), graph.Out[Marker](n, TagBatchEnd)
}

// End recomposes per-item results into a list-valued stream. One result is
// collected per item tick; when the end marker for the batch arrives, a
// single list tick is emitted whose length equals the marker size and whose
// order matches the input order.
func End[T any](g *graph.Graph, item graph.Stream[T], end graph.Stream[Marker]) graph.Stream[[]T] {
	n := g.AddNode(EndKind)
	graph.Bind(item, n, TagItem)
	graph.Bind(end, n, TagBatchEnd)
	return graph.Out[[]T](n, TagIterable)
}

func init() {
	registry.Default.MustRegister(registry.Spec{
		Kind: BeginKind,
		Inputs: []registry.Port{
			{Tag: TagIterable},
			{Tag: TagClone},
		},
		Outputs: []registry.Port{
			{Tag: TagItem},
			{Tag: TagClone},
			{Tag: TagBatchEnd, Type: registry.TypeName[Marker]()},
		},
	})

	registry.Default.MustRegister(registry.Spec{
		Kind: EndKind,
		Inputs: []registry.Port{
			{Tag: TagItem},
			{Tag: TagBatchEnd, Type: registry.TypeName[Marker]()},
		},
		Outputs: []registry.Port{
			{Tag: TagIterable},
		},
	})
}
