/*
Package graph provides the typed dataflow-graph builder underlying the
pipeline definitions: streams, stages, graph-level ports and the immutable
execution Plan.

A Stream[T] is a handle to exactly one output port of one stage. Construction
code wires streams into stage input ports with Bind, reads stage outputs with
Out, and declares the graph's own surface with Input, OptionalInput and
Output. The graph is write-once: Finalize validates the accumulated structure
(unbound ports, double bindings, type mismatches, cycles) and serializes it
into a Plan consumed by an external executor.

Construction never panics on wiring mistakes; errors accumulate and are
reported together by Finalize as an AggregateError, so a misassembled
pipeline produces one actionable report instead of a partial graph.

	g := graph.New("presence")
	score := graph.Input[float64](g, "SCORE")

	threshold := g.AddNode(stages.KindThresholding).
		SetOptions(&stages.ThresholdingOptions{Threshold: 0.5})
	graph.Bind(score, threshold, stages.TagFloat)

	graph.Output(g, "FLAG", graph.Out[bool](threshold, stages.TagFlag))

	plan, err := g.Finalize()
*/
package graph
