package landmarker

import (
	"fmt"

	"github.com/facewire/facewire/pkg/model"
	"github.com/facewire/facewire/pkg/stages"
)

// Variant is the model output layout, introspected once at build time from
// the model's declared output tensor count. It selects the tensor split
// boundary and parameterizes the landmark decoder; nothing is re-inferred
// per tick.
type Variant int

const (
	// VariantBaseline emits one landmark tensor and one presence tensor.
	VariantBaseline Variant = iota
	// VariantExtended emits six landmark tensors and one presence tensor.
	VariantExtended
)

const (
	baselineOutputTensors = 2
	extendedOutputTensors = 7
)

// detectVariant maps a declared output count to a variant. Any count other
// than the two known layouts is an unsupported model, rejected explicitly
// rather than misread as one of them.
func detectVariant(m *model.Manifest) (Variant, error) {
	switch m.OutputTensors {
	case baselineOutputTensors:
		return VariantBaseline, nil
	case extendedOutputTensors:
		return VariantExtended, nil
	default:
		return 0, fmt.Errorf("landmarker: model declares %d output tensors, want %d (baseline) or %d (extended)",
			m.OutputTensors, baselineOutputTensors, extendedOutputTensors)
	}
}

// Extended reports whether the variant is the extended (attention) mesh.
func (v Variant) Extended() bool { return v == VariantExtended }

// OutputTensors returns the output count the variant declares.
func (v Variant) OutputTensors() int {
	if v == VariantExtended {
		return extendedOutputTensors
	}
	return baselineOutputTensors
}

// SplitBoundary returns the index separating landmark tensors from the
// presence tensor.
func (v Variant) SplitBoundary() int { return v.OutputTensors() - 1 }

func (v Variant) String() string {
	if v == VariantExtended {
		return "extended"
	}
	return "baseline"
}

// splitOptions builds the tensor split for the variant: landmark tensors in
// range 0, the presence tensor in range 1.
func splitOptions(v Variant) *stages.SplitTensorVectorOptions {
	return &stages.SplitTensorVectorOptions{
		Ranges: []stages.SplitRange{
			{Begin: 0, End: v.SplitBoundary()},
			{Begin: v.SplitBoundary(), End: v.OutputTensors()},
		},
	}
}
