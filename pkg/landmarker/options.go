// Package landmarker assembles the face landmark detection pipelines: a
// single-region graph that turns an image plus one candidate face region
// into landmarks, a presence decision and a predicted next-frame region,
// and a multi-region graph that maps the same body over a variable number
// of regions per tick while keeping its four output lists index-aligned.
//
// Construction is pure: building executes once per configuration, validates
// everything up front, and emits an immutable plan. Nothing here runs per
// frame.
package landmarker

import (
	"errors"
	"fmt"

	"github.com/facewire/facewire/pkg/model"
)

// Backend selects the acceleration backend forwarded to the preprocessing
// and inference delegates.
type Backend string

const (
	BackendCPU Backend = "cpu"
	BackendGPU Backend = "gpu"
)

// ErrInvalidConfidence reports a min_detection_confidence outside [0, 1].
var ErrInvalidConfidence = errors.New("invalid min_detection_confidence option: value must be in the range [0.0, 1.0]")

// Options configures pipeline construction. Values are validated once at
// build time; an invalid configuration fails fast before any stage is
// instantiated, so no partial graph is ever produced.
type Options struct {
	// MinDetectionConfidence thresholds the presence score into the
	// presence flag. Must lie in [0, 1].
	MinDetectionConfidence float64

	// Model describes the loaded landmark model asset.
	Model *model.Manifest

	// Acceleration selects the delegate backend. Empty means CPU.
	Acceleration Backend
}

func (o Options) validate() error {
	if o.MinDetectionConfidence < 0 || o.MinDetectionConfidence > 1 {
		return fmt.Errorf("%w (got %v)", ErrInvalidConfidence, o.MinDetectionConfidence)
	}
	if o.Model == nil {
		return errors.New("landmarker: options missing model manifest")
	}
	switch o.Acceleration {
	case "", BackendCPU, BackendGPU:
	default:
		return fmt.Errorf("landmarker: unknown acceleration backend %q", o.Acceleration)
	}
	return nil
}

func (o Options) backend() Backend {
	if o.Acceleration == "" {
		return BackendCPU
	}
	return o.Acceleration
}
