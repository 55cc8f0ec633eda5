// Package stages is the catalog of stage kinds the face-landmark pipelines
// are assembled from. Built-in stages (tensor splitting, activation,
// thresholding, geometry) carry reference per-tick process functions;
// delegated stages (preprocessing, inference, tensor-to-landmark decoding)
// register contract-only port signatures and are implemented by the
// executor's collaborators.
//
// Port tags follow the wire naming convention shared with executors, so a
// serialized plan reads the same as the runtime stream log.
package stages

import "fmt"

// Stage kind names, as referenced by plans.
const (
	KindImagePreprocessing       = "ImagePreprocessing"
	KindModelInference           = "ModelInference"
	KindSplitTensorVector        = "SplitTensorVector"
	KindTensorsToFaceLandmarks   = "TensorsToFaceLandmarks"
	KindTensorsToScore           = "TensorsToScore"
	KindThresholding             = "Thresholding"
	KindLandmarksToDetection     = "LandmarksToDetection"
	KindDetectionsToRects        = "DetectionsToRects"
	KindRectTransformation       = "RectTransformation"
	KindLandmarkLetterboxRemoval = "LandmarkLetterboxRemoval"
	KindLandmarkProjection       = "LandmarkProjection"
)

// Port tags shared across stage kinds.
const (
	TagImage            = "IMAGE"
	TagNormRect         = "NORM_RECT"
	TagTensors          = "TENSORS"
	TagImageSize        = "IMAGE_SIZE"
	TagLetterboxPadding = "LETTERBOX_PADDING"
	TagLandmarks        = "LANDMARKS"
	TagNormLandmarks    = "NORM_LANDMARKS"
	TagFloat            = "FLOAT"
	TagFlag             = "FLAG"
	TagDetection        = "DETECTION"
)

// RangeTag names the i-th output of a SplitTensorVector node.
func RangeTag(i int) string {
	return fmt.Sprintf("RANGE_%d", i)
}

// want extracts a required per-tick input. A missing tag here is an executor
// contract violation, not a suppressed tick: suppressed ticks never reach a
// stage's process function.
func want[T any](in map[string]any, tag string) (T, error) {
	v, ok := in[tag]
	if !ok {
		var zero T
		return zero, fmt.Errorf("stages: missing input %q", tag)
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("stages: input %q carries %T", tag, v)
	}
	return typed, nil
}
