package stages

import (
	"fmt"

	"github.com/facewire/facewire/pkg/registry"
)

// SplitRange is a half-open [Begin, End) slice of a tensor vector.
type SplitRange struct {
	Begin int `mapstructure:"begin"`
	End   int `mapstructure:"end"`
}

// SplitTensorVectorOptions configures how the model output vector is split
// into groups. The i-th range feeds output RANGE_i.
type SplitTensorVectorOptions struct {
	Ranges []SplitRange `mapstructure:"ranges"`
}

func splitTensorVector(opts any, in map[string]any) (map[string]any, error) {
	o, ok := opts.(*SplitTensorVectorOptions)
	if !ok || len(o.Ranges) == 0 {
		return nil, fmt.Errorf("stages: %s requires ranges", KindSplitTensorVector)
	}
	tensors, err := want[[]Tensor](in, TagTensors)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(o.Ranges))
	for i, r := range o.Ranges {
		if r.Begin < 0 || r.End > len(tensors) || r.Begin >= r.End {
			return nil, fmt.Errorf("stages: range [%d, %d) out of bounds for %d tensors", r.Begin, r.End, len(tensors))
		}
		out[RangeTag(i)] = tensors[r.Begin:r.End:r.End]
	}
	return out, nil
}

func init() {
	registry.Default.MustRegister(registry.Spec{
		Kind: KindSplitTensorVector,
		Inputs: []registry.Port{
			{Tag: TagTensors, Type: registry.TypeName[[]Tensor]()},
		},
		OpenOutputs: true,
		Options:     func() any { return &SplitTensorVectorOptions{} },
		Process:     splitTensorVector,
	})
}
