package landmarker

import (
	"github.com/facewire/facewire/pkg/gate"
	"github.com/facewire/facewire/pkg/geom"
	"github.com/facewire/facewire/pkg/graph"
	"github.com/facewire/facewire/pkg/stages"
)

// Graph names under which the assembled plans are published.
const (
	SingleGraphName = "face_landmarks_detector"
	MultiGraphName  = "multi_face_landmarks_detector"
)

// Graph-level port tags.
const (
	TagImage              = "IMAGE"
	TagNormRect           = "NORM_RECT"
	TagNormLandmarks      = "NORM_LANDMARKS"
	TagFaceRectNextFrame  = "FACE_RECT_NEXT_FRAME"
	TagFaceRectsNextFrame = "FACE_RECTS_NEXT_FRAME"
	TagPresence           = "PRESENCE"
	TagPresenceScore      = "PRESENCE_SCORE"
	TagLandmarks          = "LANDMARKS"
)

// Rotation keypoints of the face mesh: outer eye corners.
const (
	leftEyeOuterCorner  = 33
	rightEyeOuterCorner = 263
)

// Next-frame rectangle expansion, a motion margin for tracking.
const rectScale = 1.5

type singleOutputs struct {
	landmarks     graph.Stream[geom.LandmarkSet]
	rectNextFrame graph.Stream[geom.Rect]
	presence      graph.Stream[bool]
	presenceScore graph.Stream[float64]
}

// NewSinglePlan builds the single-region pipeline.
//
// Inputs: IMAGE (geom.Image), NORM_RECT (geom.Rect, optional — absent means
// the whole image). Outputs: NORM_LANDMARKS (landmarks projected into the
// input image's space, suppressed when no face is present),
// FACE_RECT_NEXT_FRAME (expanded tracking rectangle, likewise suppressed),
// PRESENCE (bool) and PRESENCE_SCORE (float in [0, 1], never suppressed).
func NewSinglePlan(opts Options) (*graph.Plan, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	variant, err := detectVariant(opts.Model)
	if err != nil {
		return nil, err
	}

	g := graph.New(SingleGraphName)
	image := graph.Input[geom.Image](g, TagImage)
	faceRect := graph.OptionalInput[geom.Rect](g, TagNormRect)

	outs := buildSingle(g, opts, variant, image, faceRect)

	graph.Output(g, TagNormLandmarks, outs.landmarks)
	graph.Output(g, TagFaceRectNextFrame, outs.rectNextFrame)
	graph.Output(g, TagPresence, outs.presence)
	graph.Output(g, TagPresenceScore, outs.presenceScore)
	return g.Finalize()
}

// buildSingle wires the single-region topology into g and returns its four
// output streams. Wiring mistakes accumulate in the graph and surface at
// Finalize.
func buildSingle(g *graph.Graph, opts Options, variant Variant, image graph.Stream[geom.Image], faceRect graph.Stream[geom.Rect]) singleOutputs {
	// Crop the region out of the image and resize it, letterboxed, to the
	// model's input size.
	preprocessing := g.AddNode(stages.KindImagePreprocessing).
		SetOptions(&stages.ImagePreprocessingOptions{
			TargetWidth:     opts.Model.InputWidth,
			TargetHeight:    opts.Model.InputHeight,
			KeepAspectRatio: true,
			Backend:         string(opts.backend()),
		})
	graph.Bind(image, preprocessing, stages.TagImage)
	graph.Bind(faceRect, preprocessing, stages.TagNormRect)
	imageSize := graph.Out[geom.ImageSize](preprocessing, stages.TagImageSize)
	letterboxPadding := graph.Out[geom.Padding](preprocessing, stages.TagLetterboxPadding)
	inputTensors := graph.Out[[]stages.Tensor](preprocessing, stages.TagTensors)

	inference := g.AddNode(stages.KindModelInference).
		SetOptions(&stages.ModelInferenceOptions{
			ModelAsset: opts.Model.Asset,
			Backend:    string(opts.backend()),
		})
	graph.Bind(inputTensors, inference, stages.TagTensors)
	outputTensors := graph.Out[[]stages.Tensor](inference, stages.TagTensors)

	// Split the model output at the variant boundary: landmark tensors
	// in front, the presence tensor last.
	split := g.AddNode(stages.KindSplitTensorVector).
		SetOptions(splitOptions(variant))
	graph.Bind(outputTensors, split, stages.TagTensors)
	landmarkTensors := graph.Out[[]stages.Tensor](split, stages.RangeTag(0))
	presenceTensors := graph.Out[[]stages.Tensor](split, stages.RangeTag(1))

	// Decode landmark tensors into landmarks normalized to the model's
	// input crop.
	decode := g.AddNode(stages.KindTensorsToFaceLandmarks).
		SetOptions(&stages.TensorsToFaceLandmarksOptions{
			ExtendedMesh: variant.Extended(),
			InputWidth:   opts.Model.InputWidth,
			InputHeight:  opts.Model.InputHeight,
		})
	graph.Bind(landmarkTensors, decode, stages.TagTensors)
	landmarks := graph.Out[geom.LandmarkSet](decode, stages.TagNormLandmarks)

	// Presence score and decision. The score is emitted unconditionally;
	// only geometry is gated on the decision.
	toScore := g.AddNode(stages.KindTensorsToScore).
		SetOptions(&stages.TensorsToScoreOptions{Activation: stages.ActivationSigmoid})
	graph.Bind(presenceTensors, toScore, stages.TagTensors)
	presenceScore := graph.Out[float64](toScore, stages.TagFloat)

	threshold := g.AddNode(stages.KindThresholding).
		SetOptions(&stages.ThresholdingOptions{Threshold: opts.MinDetectionConfidence})
	graph.Bind(presenceScore, threshold, stages.TagFloat)
	presence := graph.Out[bool](threshold, stages.TagFlag)

	// Undo the letterbox, then project from region-local space back into
	// the original image's space.
	letterboxRemoval := g.AddNode(stages.KindLandmarkLetterboxRemoval)
	graph.Bind(landmarks, letterboxRemoval, stages.TagLandmarks)
	graph.Bind(letterboxPadding, letterboxRemoval, stages.TagLetterboxPadding)
	cropLandmarks := graph.Out[geom.LandmarkSet](letterboxRemoval, stages.TagLandmarks)

	projection := g.AddNode(stages.KindLandmarkProjection)
	graph.Bind(cropLandmarks, projection, stages.TagNormLandmarks)
	graph.Bind(faceRect, projection, stages.TagNormRect)
	projected := gate.AllowIf(g,
		graph.Out[geom.LandmarkSet](projection, stages.TagNormLandmarks), presence)

	// Enclosing rectangle, oriented by the eye corners, then expanded
	// into the next-frame tracking region.
	toDetection := g.AddNode(stages.KindLandmarksToDetection)
	graph.Bind(projected, toDetection, stages.TagNormLandmarks)
	detection := graph.Out[geom.Detection](toDetection, stages.TagDetection)

	toRect := g.AddNode(stages.KindDetectionsToRects).
		SetOptions(&stages.DetectionsToRectsOptions{
			RotationStartKeypoint: leftEyeOuterCorner,
			RotationEndKeypoint:   rightEyeOuterCorner,
			TargetAngleDegrees:    0,
		})
	graph.Bind(detection, toRect, stages.TagDetection)
	graph.Bind(imageSize, toRect, stages.TagImageSize)
	landmarksRect := graph.Out[geom.Rect](toRect, stages.TagNormRect)

	expand := g.AddNode(stages.KindRectTransformation).
		SetOptions(&stages.RectTransformationOptions{
			ScaleX:     rectScale,
			ScaleY:     rectScale,
			SquareLong: true,
		})
	graph.Bind(landmarksRect, expand, stages.TagNormRect)
	graph.Bind(imageSize, expand, stages.TagImageSize)
	rectNextFrame := gate.AllowIf(g,
		graph.Out[geom.Rect](expand, stages.TagNormRect), presence)

	return singleOutputs{
		landmarks:     projected,
		rectNextFrame: rectNextFrame,
		presence:      presence,
		presenceScore: presenceScore,
	}
}
