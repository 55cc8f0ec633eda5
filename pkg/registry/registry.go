// Package registry manages the catalog of stage kinds available to graph
// construction. Every node added to a graph references a registered Spec,
// which declares the stage's typed ports, an options factory for decoding
// serialized configuration, and optionally a per-tick process function.
//
// External collaborators (preprocessing, inference, tensor decoding) register
// contract-only specs: ports without a process function. The executor that
// runs the assembled graph supplies their implementations.
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// ProcessFunc is the per-tick body of a built-in stage. Inputs and outputs
// are keyed by port tag; a missing key means the port carries no value for
// this tick. The opts argument is the node's typed options record.
type ProcessFunc func(opts any, in map[string]any) (map[string]any, error)

// Port describes a single named input or output of a stage kind.
type Port struct {
	Tag string
	// Type is the Go type name carried by the port, as produced by TypeName.
	// Empty means the port is generic and accepts any stream type; the
	// concrete type is fixed per node instance by the bound streams.
	Type string
	// Optional marks an input that may be left unbound.
	Optional bool
}

// Spec declares a stage kind: its port signature, how to materialize its
// options, and (for built-in stages) its per-tick behavior.
type Spec struct {
	Kind    string
	Inputs  []Port
	Outputs []Port

	// OpenOutputs permits output tags beyond those declared, for stages
	// whose output arity depends on options (e.g. tensor splitting).
	OpenOutputs bool

	// Options returns a new zero options record for this kind, or nil if
	// the kind takes no options. Used when loading serialized plans.
	Options func() any

	// Process executes one tick. Nil for contract-only (delegated) stages.
	Process ProcessFunc
}

// Input returns the declared input port for tag.
func (s Spec) Input(tag string) (Port, bool) {
	for _, p := range s.Inputs {
		if p.Tag == tag {
			return p, true
		}
	}
	return Port{}, false
}

// Output returns the declared output port for tag.
func (s Spec) Output(tag string) (Port, bool) {
	for _, p := range s.Outputs {
		if p.Tag == tag {
			return p, true
		}
	}
	return Port{}, false
}

// Registry holds the known stage kinds.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		specs: make(map[string]Spec),
	}
}

// Default is the process-wide registry. Stage packages register their kinds
// here from init, mirroring how calculators are registered by name.
var Default = New()

// Register adds a spec to the registry.
// Registering a duplicate kind is an error.
func (r *Registry) Register(spec Spec) error {
	if spec.Kind == "" {
		return fmt.Errorf("registry: spec has empty kind")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.specs[spec.Kind]; ok {
		return fmt.Errorf("registry: kind %q already registered", spec.Kind)
	}
	r.specs[spec.Kind] = spec
	return nil
}

// MustRegister is Register that panics on error. Intended for init-time use.
func (r *Registry) MustRegister(spec Spec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

// Lookup returns the spec for kind.
func (r *Registry) Lookup(kind string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[kind]
	return spec, ok
}

// Kinds returns all registered kind names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.specs))
	for k := range r.specs {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// DecodeOptions materializes a typed options record for spec from a raw
// key/value map, as found in a serialized plan.
func DecodeOptions(spec Spec, raw map[string]any) (any, error) {
	if spec.Options == nil {
		if len(raw) > 0 {
			return nil, fmt.Errorf("registry: kind %q takes no options", spec.Kind)
		}
		return nil, nil
	}
	opts := spec.Options()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      opts,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("registry: decoding options for kind %q: %w", spec.Kind, err)
	}
	return opts, nil
}

// EncodeOptions flattens a typed options record into a key/value map for
// plan serialization. Nil options encode as nil.
func EncodeOptions(opts any) (map[string]any, error) {
	if opts == nil {
		return nil, nil
	}
	var raw map[string]any
	if err := mapstructure.Decode(opts, &raw); err != nil {
		return nil, fmt.Errorf("registry: encoding options: %w", err)
	}
	return raw, nil
}

// TypeName returns the canonical name used to match stream types against
// declared port types.
func TypeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
