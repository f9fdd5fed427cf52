package ir

import "errors"

// Structural errors surfaced while building or ordering a graph. Callers
// match with errors.Is; the wrapped message carries node and value identity.
var (
	// ErrCyclicGraph indicates the node dependencies contain a cycle, so no
	// topological order exists.
	ErrCyclicGraph = errors.New("cyclic graph")

	// ErrDanglingReference indicates a node consumes a value name that no
	// graph input, initializer or node output produces.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrDuplicateProducer indicates two producers declare the same value
	// name, violating the single-producer invariant.
	ErrDuplicateProducer = errors.New("duplicate producer")

	// ErrUnsupportedModelShape indicates the source model's input structure
	// is outside what conversion supports (for example, anything other than
	// exactly one resolved graph input).
	ErrUnsupportedModelShape = errors.New("unsupported model shape")
)
