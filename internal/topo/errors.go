package topo

import "fmt"

// TopologyError reports topology input the processor cannot turn into
// renderable geometry. It is fatal at construction.
type TopologyError struct {
	Object string
	Reason string
	Err    error
}

func (e *TopologyError) Error() string {
	msg := "topo: " + e.Reason
	if e.Object != "" {
		msg = fmt.Sprintf("topo: object %q: %s", e.Object, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TopologyError) Unwrap() error { return e.Err }

func topologyErrorf(object string, format string, args ...any) *TopologyError {
	return &TopologyError{Object: object, Reason: fmt.Sprintf(format, args...)}
}
