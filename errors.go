package grpc

import "fmt"

// InvariantError indicates that a caller violated one of this
// package's programmer-error invariants: an empty key, a pseudo-header
// following a regular header, an out-of-range
// :scheme/content-type/te value, a malformed grpc-timeout deadline,
// or a frame-length bound violation. There is no recoverable runtime error in this
// encoder; every InvariantError is fatal to the encoding call in
// progress and the transport that owns the compressor should tear
// down the connection rather than continue encoding on it.
type InvariantError struct {
	Component string
	Reason    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("hpack encoder invariant violated in %s: %s", e.Component, e.Reason)
}

func invariant(component string, cond bool, reason string) {
	if !cond {
		panic(&InvariantError{Component: component, Reason: reason})
	}
}
