package stages

import (
	"math"

	"github.com/facewire/facewire/pkg/geom"
	"github.com/facewire/facewire/pkg/registry"
)

// DetectionsToRectsOptions configures how a detection becomes a rotated
// rectangle: the two keypoints defining its orientation and the angle they
// are aligned to.
type DetectionsToRectsOptions struct {
	RotationStartKeypoint int     `mapstructure:"rotation_start_keypoint"`
	RotationEndKeypoint   int     `mapstructure:"rotation_end_keypoint"`
	TargetAngleDegrees    float64 `mapstructure:"target_angle_degrees"`
}

// RectTransformationOptions configures rectangle expansion.
type RectTransformationOptions struct {
	ScaleX     float64 `mapstructure:"scale_x"`
	ScaleY     float64 `mapstructure:"scale_y"`
	SquareLong bool    `mapstructure:"square_long"`
}

func detectionsToRects(opts any, in map[string]any) (map[string]any, error) {
	o, _ := opts.(*DetectionsToRectsOptions)
	if o == nil {
		o = &DetectionsToRectsOptions{}
	}
	det, err := want[geom.Detection](in, TagDetection)
	if err != nil {
		return nil, err
	}
	size, err := want[geom.ImageSize](in, TagImageSize)
	if err != nil {
		return nil, err
	}
	rect, err := geom.DetectionToRect(det, size,
		o.RotationStartKeypoint, o.RotationEndKeypoint,
		o.TargetAngleDegrees*math.Pi/180)
	if err != nil {
		return nil, err
	}
	return map[string]any{TagNormRect: rect}, nil
}

func rectTransformation(opts any, in map[string]any) (map[string]any, error) {
	o, _ := opts.(*RectTransformationOptions)
	if o == nil {
		o = &RectTransformationOptions{ScaleX: 1, ScaleY: 1}
	}
	rect, err := want[geom.Rect](in, TagNormRect)
	if err != nil {
		return nil, err
	}
	size, err := want[geom.ImageSize](in, TagImageSize)
	if err != nil {
		return nil, err
	}
	out := geom.TransformRect(rect, size, geom.RectTransformOptions{
		ScaleX:     o.ScaleX,
		ScaleY:     o.ScaleY,
		SquareLong: o.SquareLong,
	})
	return map[string]any{TagNormRect: out}, nil
}

func init() {
	registry.Default.MustRegister(registry.Spec{
		Kind: KindDetectionsToRects,
		Inputs: []registry.Port{
			{Tag: TagDetection, Type: registry.TypeName[geom.Detection]()},
			{Tag: TagImageSize, Type: registry.TypeName[geom.ImageSize]()},
		},
		Outputs: []registry.Port{
			{Tag: TagNormRect, Type: registry.TypeName[geom.Rect]()},
		},
		Options: func() any { return &DetectionsToRectsOptions{} },
		Process: detectionsToRects,
	})

	registry.Default.MustRegister(registry.Spec{
		Kind: KindRectTransformation,
		Inputs: []registry.Port{
			{Tag: TagNormRect, Type: registry.TypeName[geom.Rect]()},
			{Tag: TagImageSize, Type: registry.TypeName[geom.ImageSize]()},
		},
		Outputs: []registry.Port{
			{Tag: TagNormRect, Type: registry.TypeName[geom.Rect]()},
		},
		Options: func() any { return &RectTransformationOptions{} },
		Process: rectTransformation,
	})
}
