package stages

import (
	"fmt"
	"math"

	"github.com/facewire/facewire/pkg/registry"
)

// Activation names for TensorsToScoreOptions.
const (
	ActivationNone    = "none"
	ActivationSigmoid = "sigmoid"
)

// TensorsToScoreOptions configures the presence-tensor decoder: one tensor
// in, one scalar out, through the selected activation.
type TensorsToScoreOptions struct {
	Activation string `mapstructure:"activation"`
}

// ThresholdingOptions configures the presence decision. The flag is
// score >= Threshold.
type ThresholdingOptions struct {
	Threshold float64 `mapstructure:"threshold"`
}

func tensorsToScore(opts any, in map[string]any) (map[string]any, error) {
	tensors, err := want[[]Tensor](in, TagTensors)
	if err != nil {
		return nil, err
	}
	if len(tensors) == 0 {
		return nil, fmt.Errorf("stages: %s received no tensors", KindTensorsToScore)
	}
	v, err := tensors[0].Scalar()
	if err != nil {
		return nil, err
	}
	activation := ActivationNone
	if o, ok := opts.(*TensorsToScoreOptions); ok && o.Activation != "" {
		activation = o.Activation
	}
	switch activation {
	case ActivationNone:
	case ActivationSigmoid:
		v = sigmoid(v)
	default:
		return nil, fmt.Errorf("stages: unknown activation %q", activation)
	}
	return map[string]any{TagFloat: v}, nil
}

func thresholding(opts any, in map[string]any) (map[string]any, error) {
	o, ok := opts.(*ThresholdingOptions)
	if !ok {
		return nil, fmt.Errorf("stages: %s requires options", KindThresholding)
	}
	score, err := want[float64](in, TagFloat)
	if err != nil {
		return nil, err
	}
	return map[string]any{TagFlag: score >= o.Threshold}, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func init() {
	registry.Default.MustRegister(registry.Spec{
		Kind: KindTensorsToScore,
		Inputs: []registry.Port{
			{Tag: TagTensors, Type: registry.TypeName[[]Tensor]()},
		},
		Outputs: []registry.Port{
			{Tag: TagFloat, Type: registry.TypeName[float64]()},
		},
		Options: func() any { return &TensorsToScoreOptions{} },
		Process: tensorsToScore,
	})

	registry.Default.MustRegister(registry.Spec{
		Kind: KindThresholding,
		Inputs: []registry.Port{
			{Tag: TagFloat, Type: registry.TypeName[float64]()},
		},
		Outputs: []registry.Port{
			{Tag: TagFlag, Type: registry.TypeName[bool]()},
		},
		Options: func() any { return &ThresholdingOptions{} },
		Process: thresholding,
	})
}
