package converters

import (
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

// Fragment is one lowered operator: a self-describing unit whose parameter
// tensors are already reshaped to the target convention. The lowering engine
// collects fragments in topological order and hands them to the assembler,
// which owns them afterwards.
type Fragment interface {
	// OpType returns the operator tag this fragment was lowered from.
	OpType() string

	// Forward runs the fragment on a batch of rows using the given backend.
	// Non-terminal fragments (feature transforms) populate only Features;
	// terminal fragments populate Scores and, for classifiers, Labels.
	Forward(b tensor.Backend, x *tensor.RawTensor) (*Output, error)
}

// Output carries a fragment's results.
//
// Exactly one of Features (transform stages) or Scores (terminal stages) is
// set. Labels is the Int64 class-label column for classifier fragments.
type Output struct {
	Features *tensor.RawTensor
	Scores   *tensor.RawTensor
	Labels   *tensor.RawTensor
}

// Terminal reports whether the output came from a terminal stage.
func (o *Output) Terminal() bool {
	return o.Scores != nil
}
