package facewire

import (
	"fmt"
	"os"

	"github.com/facewire/facewire/pkg/graph"
	"github.com/facewire/facewire/pkg/landmarker"
	"github.com/facewire/facewire/pkg/model"
	"github.com/facewire/facewire/pkg/registry"
)

// Version is the library version, reported by the CLI.
const Version = "0.3.0"

// Options configures pipeline construction. See landmarker.Options.
type Options = landmarker.Options

// LoadModel reads a model manifest from disk.
func LoadModel(path string) (*model.Manifest, error) {
	return model.LoadManifest(path)
}

// BuildSingleFaceLandmarks assembles the single-region face landmark
// pipeline and returns its immutable plan.
func BuildSingleFaceLandmarks(opts Options) (*graph.Plan, error) {
	return landmarker.NewSinglePlan(opts)
}

// BuildMultiFaceLandmarks assembles the multi-region face landmark
// pipeline: the single-region body batch-mapped over a per-tick list of
// candidate regions, with index-aligned list outputs.
func BuildMultiFaceLandmarks(opts Options) (*graph.Plan, error) {
	return landmarker.NewMultiPlan(opts)
}

// LoadPlan reads a serialized plan from disk, re-typing its options
// against the default stage registry and re-running validation.
func LoadPlan(path string) (*graph.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	return graph.LoadPlan(data, registry.Default)
}
