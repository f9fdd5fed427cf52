package converters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshuadvd/hummingbird/internal/backend/cpu"
	"github.com/jshuadvd/hummingbird/internal/estimator"
	"github.com/jshuadvd/hummingbird/internal/ir"
	"github.com/jshuadvd/hummingbird/internal/tensor"
)

func scalerNode(mean, scale []float64) *ir.Node {
	return &ir.Node{
		ID:     "scaler_0",
		OpType: "SklearnScaler",
		Raw:    &estimator.StandardScaler{Mean: mean, Scale: scale},
	}
}

func TestScalerConvertAndForward(t *testing.T) {
	frag, err := convertSklearnScaler(scalerNode([]float64{1, 2}, []float64{2, 4}), tensor.CPU, nil)
	require.NoError(t, err)

	model := frag.(*ScalerModel)
	assert.Equal(t, []float32{-1, -2}, model.Offsets.AsFloat32())
	assert.Equal(t, []float32{0.5, 0.25}, model.Factors.AsFloat32())

	x := f32Tensor(t, []float32{3, 6, 1, 2}, tensor.Shape{2, 2})
	out, err := model.Forward(cpu.New(), x)
	require.NoError(t, err)

	// (x - mean) / scale applied per column.
	require.NotNil(t, out.Features)
	assert.False(t, out.Terminal())
	assert.Equal(t, []float32{1, 1, 0, 0}, out.Features.AsFloat32())
}

func TestScalerMalformed(t *testing.T) {
	tests := []struct {
		name  string
		mean  []float64
		scale []float64
	}{
		{"empty", nil, nil},
		{"length mismatch", []float64{1, 2}, []float64{1}},
		{"zero scale", []float64{1, 2}, []float64{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convertSklearnScaler(scalerNode(tt.mean, tt.scale), tensor.CPU, nil)
			assert.ErrorIs(t, err, ErrMalformedOperator)
		})
	}
}

func TestScalerWrongPayload(t *testing.T) {
	node := &ir.Node{ID: "scaler_0", OpType: "SklearnScaler", Raw: "not a scaler"}
	_, err := convertSklearnScaler(node, tensor.CPU, nil)
	assert.ErrorIs(t, err, ErrMalformedOperator)
}
