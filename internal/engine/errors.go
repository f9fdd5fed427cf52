package engine

import "errors"

// Errors surfaced by the conversion entry points. Every precondition is
// checked before IR construction begins, so failures are cheap and no
// partially converted model ever escapes.
var (
	// ErrUnsupportedBackend indicates the requested device has no tensor
	// runtime compiled into this build.
	ErrUnsupportedBackend = errors.New("unsupported backend")

	// ErrFeatureCountUnresolvable indicates a tree-ensemble model does not
	// record its input width and neither the configuration nor a 2-D test
	// input supplies it.
	ErrFeatureCountUnresolvable = errors.New("feature count unresolvable")

	// ErrUnsupportedElementType indicates test-data synthesis was requested
	// for a tensor element type other than float32 or int32.
	ErrUnsupportedElementType = errors.New("unsupported element type")
)
