package graph

import "fmt"

// BuildError represents a single graph construction failure.
type BuildError struct {
	Node   string // node id, empty for graph-level failures
	Port   string // port tag, empty when not port-specific
	Reason string
}

func (e *BuildError) Error() string {
	switch {
	case e.Node != "" && e.Port != "":
		return fmt.Sprintf("node %q, port %q: %s", e.Node, e.Port, e.Reason)
	case e.Node != "":
		return fmt.Sprintf("node %q: %s", e.Node, e.Reason)
	default:
		return e.Reason
	}
}

// AggregateError represents multiple construction failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d graph errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// BuildErrors returns the individual errors if err is an AggregateError.
// Otherwise returns nil.
func BuildErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
