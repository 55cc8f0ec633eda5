package stages

import "fmt"

// Tensor is the opaque value exchanged between the preprocessing, inference
// and decoding stages. The builder never inspects tensor contents; the
// reference stages only read scalars out of it.
type Tensor struct {
	Shape []int
	Data  []float64
}

// Scalar returns the first element of the tensor.
func (t Tensor) Scalar() (float64, error) {
	if len(t.Data) == 0 {
		return 0, fmt.Errorf("stages: empty tensor")
	}
	return t.Data[0], nil
}
