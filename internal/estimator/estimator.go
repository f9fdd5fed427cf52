// Package estimator defines the fitted-model structures the conversion
// pipeline accepts on its statistical-model path, together with the adapter
// that presents a model (or pipeline of models) as a lowering source graph.
//
// Parameters are held the way they come out of a fitting library: float64
// matrices and vectors. Lowering converts them to float32 tensors; the
// structures here are read-only views during conversion.
package estimator

// Estimator is a fitted model that conversion can lower. Implementations
// carry their trained parameters as exported fields.
type Estimator interface {
	// OpType returns the operator tag the converter registry dispatches on.
	OpType() string
	// NumFeatures returns the expected input width, or 0 when the model
	// does not record it.
	NumFeatures() int
}
