// Package model describes loaded model assets to the graph builder. The
// actual model file parsing belongs to the executor's asset loader; what
// construction needs is the declared shape of the model: its input crop
// size and how many output tensors it emits, which is introspected once at
// build time and never per tick.
package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the build-time description of a model asset.
type Manifest struct {
	Name  string `yaml:"name"`
	Asset string `yaml:"asset"`
	// Input tensor size the preprocessing stage must produce.
	InputWidth  int `yaml:"input_width"`
	InputHeight int `yaml:"input_height"`
	// Number of output tensors the model declares. Drives variant
	// detection and the tensor split boundary.
	OutputTensors int `yaml:"output_tensors"`
}

// ParseManifest decodes and validates a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("model: parsing manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: reading manifest: %w", err)
	}
	return ParseManifest(data)
}

func (m *Manifest) validate() error {
	if m.Asset == "" {
		return fmt.Errorf("model: manifest missing asset path")
	}
	if m.InputWidth <= 0 || m.InputHeight <= 0 {
		return fmt.Errorf("model: manifest input size %dx%d is not positive", m.InputWidth, m.InputHeight)
	}
	if m.OutputTensors <= 0 {
		return fmt.Errorf("model: manifest declares %d output tensors", m.OutputTensors)
	}
	return nil
}
