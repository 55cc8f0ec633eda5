package stages

import (
	"github.com/facewire/facewire/pkg/geom"
	"github.com/facewire/facewire/pkg/registry"
)

// The stages in this file are delegated external collaborators: the builder
// pins down their port contracts and options so plans are fully typed, but
// their per-tick behavior lives outside this module (image transforms, the
// inference engine, the landmark tensor decoder).

// ImagePreprocessingOptions configures the crop/resize delegate.
type ImagePreprocessingOptions struct {
	// Target tensor size, from the model's input spec.
	TargetWidth  int `mapstructure:"target_width"`
	TargetHeight int `mapstructure:"target_height"`
	// KeepAspectRatio letterboxes instead of stretching; the resulting
	// padding is reported on LETTERBOX_PADDING.
	KeepAspectRatio bool `mapstructure:"keep_aspect_ratio"`
	// Backend selects the acceleration backend for the image transform.
	Backend string `mapstructure:"backend,omitempty"`
}

// ModelInferenceOptions configures the inference delegate.
type ModelInferenceOptions struct {
	ModelAsset string `mapstructure:"model_asset"`
	Backend    string `mapstructure:"backend,omitempty"`
}

// TensorsToFaceLandmarksOptions configures the landmark tensor decoder,
// itself a sub-pipeline parameterized by the model variant and the model's
// input crop size.
type TensorsToFaceLandmarksOptions struct {
	ExtendedMesh bool `mapstructure:"extended_mesh"`
	InputWidth   int  `mapstructure:"input_width"`
	InputHeight  int  `mapstructure:"input_height"`
}

func init() {
	registry.Default.MustRegister(registry.Spec{
		Kind: KindImagePreprocessing,
		Inputs: []registry.Port{
			{Tag: TagImage, Type: registry.TypeName[geom.Image]()},
			{Tag: TagNormRect, Type: registry.TypeName[geom.Rect](), Optional: true},
		},
		Outputs: []registry.Port{
			{Tag: TagTensors, Type: registry.TypeName[[]Tensor]()},
			{Tag: TagImageSize, Type: registry.TypeName[geom.ImageSize]()},
			{Tag: TagLetterboxPadding, Type: registry.TypeName[geom.Padding]()},
		},
		Options: func() any { return &ImagePreprocessingOptions{} },
	})

	registry.Default.MustRegister(registry.Spec{
		Kind: KindModelInference,
		Inputs: []registry.Port{
			{Tag: TagTensors, Type: registry.TypeName[[]Tensor]()},
		},
		Outputs: []registry.Port{
			{Tag: TagTensors, Type: registry.TypeName[[]Tensor]()},
		},
		Options: func() any { return &ModelInferenceOptions{} },
	})

	registry.Default.MustRegister(registry.Spec{
		Kind: KindTensorsToFaceLandmarks,
		Inputs: []registry.Port{
			{Tag: TagTensors, Type: registry.TypeName[[]Tensor]()},
		},
		Outputs: []registry.Port{
			{Tag: TagNormLandmarks, Type: registry.TypeName[geom.LandmarkSet]()},
		},
		Options: func() any { return &TensorsToFaceLandmarksOptions{} },
	})
}
