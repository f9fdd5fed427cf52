package converters

import (
	"github.com/jshuadvd/hummingbird/internal/estimator"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

func (r *Registry) registerScalerOps() {
	r.mustRegister("SklearnScaler", convertSklearnScaler)
}

// ScalerModel is the lowered form of a feature standardizer: the transform
// (x - mean) / scale folded into (x + Offsets) * Factors with both
// parameters stored as broadcast row vectors.
type ScalerModel struct {
	Offsets *tensor.RawTensor // (1, features), negated means
	Factors *tensor.RawTensor // (1, features), reciprocal scales

	opType string
}

// OpType returns the operator tag this fragment was lowered from.
func (m *ScalerModel) OpType() string { return m.opType }

// Forward standardizes a (rows, features) batch. Scalers are transform
// stages, so the result is carried as features for the next fragment.
func (m *ScalerModel) Forward(b tensor.Backend, x *tensor.RawTensor) (*Output, error) {
	return &Output{Features: b.Mul(b.Add(x, m.Offsets), m.Factors)}, nil
}

// convertSklearnScaler lowers a fitted StandardScaler.
func convertSklearnScaler(node *ir.Node, device tensor.Device, cfg Config) (Fragment, error) {
	model, ok := node.Raw.(*estimator.StandardScaler)
	if !ok {
		return nil, malformedf(node, "raw payload is %T, want *estimator.StandardScaler", node.Raw)
	}
	if len(model.Mean) == 0 {
		return nil, malformedf(node, "empty mean vector")
	}
	if len(model.Mean) != len(model.Scale) {
		return nil, malformedf(node, "%d means for %d scales", len(model.Mean), len(model.Scale))
	}

	offsets := make([]float32, len(model.Mean))
	factors := make([]float32, len(model.Scale))
	for i := range model.Mean {
		if model.Scale[i] == 0 {
			return nil, malformedf(node, "zero scale for feature %d", i)
		}
		offsets[i] = float32(-model.Mean[i])
		factors[i] = float32(1 / model.Scale[i])
	}

	off, err := tensor.FromFloat32s(offsets, tensor.Shape{1, len(offsets)}, device)
	if err != nil {
		return nil, malformedf(node, "offsets: %v", err)
	}
	fac, err := tensor.FromFloat32s(factors, tensor.Shape{1, len(factors)}, device)
	if err != nil {
		return nil, malformedf(node, "factors: %v", err)
	}

	return &ScalerModel{Offsets: off, Factors: fac, opType: node.OpType}, nil
}
