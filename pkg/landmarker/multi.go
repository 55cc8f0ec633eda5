package landmarker

import (
	"github.com/facewire/facewire/pkg/batch"
	"github.com/facewire/facewire/pkg/geom"
	"github.com/facewire/facewire/pkg/graph"
)

// NewMultiPlan builds the multi-region pipeline: the single-region body
// mapped over a variable, per-tick list of regions.
//
// Inputs: IMAGE (geom.Image), NORM_RECT ([]geom.Rect, required). Outputs:
// LANDMARKS, FACE_RECTS_NEXT_FRAME, PRESENCE and PRESENCE_SCORE, four lists
// each of length |NORM_RECT| with index i corresponding to region i. The
// four collectors share one end-of-batch marker, which is what keeps the
// lists aligned; suppressed items hold placeholder zero values and are
// identified through the PRESENCE list.
func NewMultiPlan(opts Options) (*graph.Plan, error) {
	single, err := NewSinglePlan(opts)
	if err != nil {
		return nil, err
	}

	g := graph.New(MultiGraphName)
	image := graph.Input[geom.Image](g, TagImage)
	faceRects := graph.Input[[]geom.Rect](g, TagNormRect)

	// One body invocation per region, with the frame replicated alongside
	// each region.
	faceRect, imageClone, batchEnd := batch.Begin(g, faceRects, image)

	body := g.AddSubgraph(single)
	graph.Bind(imageClone, body, TagImage)
	graph.Bind(faceRect, body, TagNormRect)

	landmarks := graph.Out[geom.LandmarkSet](body, TagNormLandmarks)
	rectNextFrame := graph.Out[geom.Rect](body, TagFaceRectNextFrame)
	presence := graph.Out[bool](body, TagPresence)
	presenceScore := graph.Out[float64](body, TagPresenceScore)

	graph.Output(g, TagLandmarks, batch.End(g, landmarks, batchEnd))
	graph.Output(g, TagFaceRectsNextFrame, batch.End(g, rectNextFrame, batchEnd))
	graph.Output(g, TagPresence, batch.End(g, presence, batchEnd))
	graph.Output(g, TagPresenceScore, batch.End(g, presenceScore, batchEnd))
	return g.Finalize()
}
