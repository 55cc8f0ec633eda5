package stages

import (
	"github.com/facewire/facewire/pkg/geom"
	"github.com/facewire/facewire/pkg/registry"
)

func landmarkLetterboxRemoval(_ any, in map[string]any) (map[string]any, error) {
	lms, err := want[geom.LandmarkSet](in, TagLandmarks)
	if err != nil {
		return nil, err
	}
	pad, err := want[geom.Padding](in, TagLetterboxPadding)
	if err != nil {
		return nil, err
	}
	return map[string]any{TagLandmarks: geom.RemoveLetterbox(lms, pad)}, nil
}

func landmarkProjection(_ any, in map[string]any) (map[string]any, error) {
	lms, err := want[geom.LandmarkSet](in, TagNormLandmarks)
	if err != nil {
		return nil, err
	}
	rect := geom.WholeImage()
	if r, ok := in[TagNormRect].(geom.Rect); ok {
		rect = r
	}
	return map[string]any{TagNormLandmarks: geom.ProjectLandmarks(lms, rect)}, nil
}

func landmarksToDetection(_ any, in map[string]any) (map[string]any, error) {
	lms, err := want[geom.LandmarkSet](in, TagNormLandmarks)
	if err != nil {
		return nil, err
	}
	return map[string]any{TagDetection: geom.DetectionFromLandmarks(lms)}, nil
}

func init() {
	registry.Default.MustRegister(registry.Spec{
		Kind: KindLandmarkLetterboxRemoval,
		Inputs: []registry.Port{
			{Tag: TagLandmarks, Type: registry.TypeName[geom.LandmarkSet]()},
			{Tag: TagLetterboxPadding, Type: registry.TypeName[geom.Padding]()},
		},
		Outputs: []registry.Port{
			{Tag: TagLandmarks, Type: registry.TypeName[geom.LandmarkSet]()},
		},
		Process: landmarkLetterboxRemoval,
	})

	registry.Default.MustRegister(registry.Spec{
		Kind: KindLandmarkProjection,
		Inputs: []registry.Port{
			{Tag: TagNormLandmarks, Type: registry.TypeName[geom.LandmarkSet]()},
			// Absent region means the landmarks were detected on the
			// whole image; projection is then the identity transform.
			{Tag: TagNormRect, Type: registry.TypeName[geom.Rect](), Optional: true},
		},
		Outputs: []registry.Port{
			{Tag: TagNormLandmarks, Type: registry.TypeName[geom.LandmarkSet]()},
		},
		Process: landmarkProjection,
	})

	registry.Default.MustRegister(registry.Spec{
		Kind: KindLandmarksToDetection,
		Inputs: []registry.Port{
			{Tag: TagNormLandmarks, Type: registry.TypeName[geom.LandmarkSet]()},
		},
		Outputs: []registry.Port{
			{Tag: TagDetection, Type: registry.TypeName[geom.Detection]()},
		},
		Process: landmarksToDetection,
	})
}
