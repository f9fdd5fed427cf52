package convert

import (
	"github.com/jshuadvd/hummingbird/internal/converters"
	"github.com/jshuadvd/hummingbird/internal/engine"
	"github.com/jshuadvd/hummingbird/internal/ir"
)

// Conversion failures wrap one of these sentinels; match with errors.Is.
// Wrapped messages add the failing operator tag and node identity.
var (
	// ErrUnsupportedOperator indicates a source node's operator tag has no
	// registered converter.
	ErrUnsupportedOperator = converters.ErrUnsupportedOperator

	// ErrDuplicateRegistration indicates two converters were bound to the
	// same operator tag.
	ErrDuplicateRegistration = converters.ErrDuplicateRegistration

	// ErrMalformedOperator indicates a source node's parameters are
	// structurally invalid (mismatched lengths, missing attributes,
	// broken tree links).
	ErrMalformedOperator = converters.ErrMalformedOperator

	// ErrCyclicGraph indicates the source model's dependencies contain a
	// cycle and no topological order exists.
	ErrCyclicGraph = ir.ErrCyclicGraph

	// ErrDanglingReference indicates a node consumes a value that no node,
	// graph input or initializer produces.
	ErrDanglingReference = ir.ErrDanglingReference

	// ErrDuplicateProducer indicates two nodes claim the same output value
	// name.
	ErrDuplicateProducer = ir.ErrDuplicateProducer

	// ErrUnsupportedModelShape indicates the source model's input or
	// output structure is outside what conversion supports (several
	// resolved inputs, non-2-D declarations).
	ErrUnsupportedModelShape = ir.ErrUnsupportedModelShape

	// ErrUnsupportedBackend indicates the requested device has no tensor
	// runtime in this build.
	ErrUnsupportedBackend = engine.ErrUnsupportedBackend

	// ErrFeatureCountUnresolvable indicates a tree-ensemble conversion
	// could not fix the model's input width.
	ErrFeatureCountUnresolvable = engine.ErrFeatureCountUnresolvable

	// ErrUnsupportedElementType indicates test-data synthesis was asked
	// for an element type other than float32 or int32.
	ErrUnsupportedElementType = engine.ErrUnsupportedElementType
)
