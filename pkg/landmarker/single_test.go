package landmarker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facewire/facewire/pkg/gate"
	"github.com/facewire/facewire/pkg/graph"
	"github.com/facewire/facewire/pkg/registry"
	"github.com/facewire/facewire/pkg/stages"
)

func defaultOptions() Options {
	return Options{
		MinDetectionConfidence: 0.5,
		Model:                  testManifest(2),
	}
}

func outputByTag(t *testing.T, p *graph.Plan, tag string) graph.OutputDecl {
	t.Helper()
	for _, out := range p.Outputs {
		if out.Tag == tag {
			return out
		}
	}
	t.Fatalf("plan declares no output %q", tag)
	return graph.OutputDecl{}
}

func TestNewSinglePlan(t *testing.T) {
	plan, err := NewSinglePlan(defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, SingleGraphName, plan.Name)

	require.Len(t, plan.Inputs, 2)
	assert.Equal(t, TagImage, plan.Inputs[0].Tag)
	assert.False(t, plan.Inputs[0].Optional)
	assert.Equal(t, TagNormRect, plan.Inputs[1].Tag)
	assert.True(t, plan.Inputs[1].Optional, "absent region means the whole image")

	require.Len(t, plan.Outputs, 4)
	for _, tag := range []string{TagNormLandmarks, TagFaceRectNextFrame, TagPresence, TagPresenceScore} {
		outputByTag(t, plan, tag)
	}
}

func TestNewSinglePlan_GeometryIsGated(t *testing.T) {
	plan, err := NewSinglePlan(defaultOptions())
	require.NoError(t, err)

	gates := plan.NodesOfKind(gate.Kind)
	require.Len(t, gates, 2, "landmarks and the tracking rect are each gated on presence")

	// Both geometry outputs come from gates; presence and score do not.
	gateIDs := map[string]bool{}
	for _, n := range gates {
		gateIDs[n.ID+":"+gate.TagValue] = true
	}
	assert.True(t, gateIDs[outputByTag(t, plan, TagNormLandmarks).From])
	assert.True(t, gateIDs[outputByTag(t, plan, TagFaceRectNextFrame).From])
	assert.False(t, gateIDs[outputByTag(t, plan, TagPresence).From])
	assert.False(t, gateIDs[outputByTag(t, plan, TagPresenceScore).From])

	// Every gate keys off the thresholded presence flag.
	thresholds := plan.NodesOfKind(stages.KindThresholding)
	require.Len(t, thresholds, 1)
	for _, n := range gates {
		assert.Equal(t, thresholds[0].ID+":"+stages.TagFlag, n.Inputs[gate.TagCondition])
	}
}

func TestNewSinglePlan_ScoreIsNeverGated(t *testing.T) {
	plan, err := NewSinglePlan(defaultOptions())
	require.NoError(t, err)

	scores := plan.NodesOfKind(stages.KindTensorsToScore)
	require.Len(t, scores, 1)
	assert.Equal(t, scores[0].ID+":"+stages.TagFloat, outputByTag(t, plan, TagPresenceScore).From)
}

func TestNewSinglePlan_ThresholdFromOptions(t *testing.T) {
	opts := defaultOptions()
	opts.MinDetectionConfidence = 0.72
	plan, err := NewSinglePlan(opts)
	require.NoError(t, err)

	thresholds := plan.NodesOfKind(stages.KindThresholding)
	require.Len(t, thresholds, 1)
	to, ok := thresholds[0].TypedOptions().(*stages.ThresholdingOptions)
	require.True(t, ok)
	assert.Equal(t, 0.72, to.Threshold)
}

func TestNewSinglePlan_BaselineSplit(t *testing.T) {
	plan, err := NewSinglePlan(defaultOptions())
	require.NoError(t, err)

	splits := plan.NodesOfKind(stages.KindSplitTensorVector)
	require.Len(t, splits, 1)
	so, ok := splits[0].TypedOptions().(*stages.SplitTensorVectorOptions)
	require.True(t, ok)
	assert.Equal(t, []stages.SplitRange{{Begin: 0, End: 1}, {Begin: 1, End: 2}}, so.Ranges)

	decodes := plan.NodesOfKind(stages.KindTensorsToFaceLandmarks)
	require.Len(t, decodes, 1)
	do, ok := decodes[0].TypedOptions().(*stages.TensorsToFaceLandmarksOptions)
	require.True(t, ok)
	assert.False(t, do.ExtendedMesh)
}

func TestNewSinglePlan_ExtendedSplit(t *testing.T) {
	opts := defaultOptions()
	opts.Model = testManifest(7)
	plan, err := NewSinglePlan(opts)
	require.NoError(t, err)

	splits := plan.NodesOfKind(stages.KindSplitTensorVector)
	require.Len(t, splits, 1)
	so := splits[0].TypedOptions().(*stages.SplitTensorVectorOptions)
	assert.Equal(t, []stages.SplitRange{{Begin: 0, End: 6}, {Begin: 6, End: 7}}, so.Ranges)

	decodes := plan.NodesOfKind(stages.KindTensorsToFaceLandmarks)
	require.Len(t, decodes, 1)
	do := decodes[0].TypedOptions().(*stages.TensorsToFaceLandmarksOptions)
	assert.True(t, do.ExtendedMesh)
}

func TestNewSinglePlan_RotationAndExpansion(t *testing.T) {
	plan, err := NewSinglePlan(defaultOptions())
	require.NoError(t, err)

	toRects := plan.NodesOfKind(stages.KindDetectionsToRects)
	require.Len(t, toRects, 1)
	ro := toRects[0].TypedOptions().(*stages.DetectionsToRectsOptions)
	assert.Equal(t, 33, ro.RotationStartKeypoint)
	assert.Equal(t, 263, ro.RotationEndKeypoint)
	assert.Equal(t, 0.0, ro.TargetAngleDegrees)

	expands := plan.NodesOfKind(stages.KindRectTransformation)
	require.Len(t, expands, 1)
	eo := expands[0].TypedOptions().(*stages.RectTransformationOptions)
	assert.Equal(t, 1.5, eo.ScaleX)
	assert.Equal(t, 1.5, eo.ScaleY)
	assert.True(t, eo.SquareLong)
}

func TestNewSinglePlan_InvalidOptions(t *testing.T) {
	opts := defaultOptions()
	opts.MinDetectionConfidence = 1.1
	_, err := NewSinglePlan(opts)
	assert.ErrorIs(t, err, ErrInvalidConfidence)

	opts = defaultOptions()
	opts.Model = testManifest(5)
	_, err = NewSinglePlan(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output tensors")

	opts = defaultOptions()
	opts.Model = nil
	_, err = NewSinglePlan(opts)
	assert.Error(t, err)
}

func TestNewSinglePlan_SerializationRoundTrip(t *testing.T) {
	plan, err := NewSinglePlan(defaultOptions())
	require.NoError(t, err)

	data, err := plan.Encode()
	require.NoError(t, err)

	loaded, err := graph.LoadPlan(data, registry.Default)
	require.NoError(t, err)
	assert.Equal(t, plan.Name, loaded.Name)
	assert.Len(t, loaded.Nodes, len(plan.Nodes))
}
